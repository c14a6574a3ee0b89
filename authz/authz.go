// Package authz resolves whether a user may act on a team-scoped entity.
// It is a pure decision library: the caller loads the team, the acting
// user's membership row and the target entity, and authz only compares
// roles. It performs no I/O and holds no state.
package authz

import "teamboard/models"

// Role is a permission level inside a team, ordered owner > admin >
// editor > viewer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// roleRank maps roles onto the strict total order used for comparisons.
// Unknown roles rank below viewer and therefore never satisfy a minimum.
var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Rank returns the privilege rank of r, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRank[r]
}

// Valid reports whether r is one of the four known roles
func (r Role) Valid() bool {
	return roleRank[r] != 0
}

// AtLeast reports whether r grants at least the privileges of min
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Action is something a user wants to do to a team-scoped entity
type Action int

const (
	// ActionView covers reading projects, boards, tasks, comments,
	// activity and the member list.
	ActionView Action = iota
	// ActionCreate covers creating projects, boards, tasks and comments.
	// Any membership suffices.
	ActionCreate
	// ActionEdit covers updating existing entities, currently tasks.
	ActionEdit
	// ActionDelete covers deleting projects and boards. Task deletion
	// additionally honors the creator override, see CanDeleteTask.
	ActionDelete
	// ActionManageMembers covers adding and removing members and
	// issuing invitations.
	ActionManageMembers
	// ActionDeleteTeam is strictly reserved to the team owner.
	ActionDeleteTeam
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionManageMembers:
		return "manage_members"
	case ActionDeleteTeam:
		return "delete_team"
	}
	return "unknown"
}

// MinRoleFor returns the minimum role required for an action
func MinRoleFor(a Action) Role {
	switch a {
	case ActionView, ActionCreate:
		return RoleViewer
	case ActionEdit:
		return RoleEditor
	case ActionDelete, ActionManageMembers:
		return RoleAdmin
	case ActionDeleteTeam:
		return RoleOwner
	}
	return RoleOwner
}

// Reason explains a denial
type Reason string

const (
	// ReasonNotAMember means the user has no membership row in the team
	// and is not its owner.
	ReasonNotAMember Reason = "you are not a member of this team"
	// ReasonInsufficientRole means the user's role ranks below the
	// minimum the action requires.
	ReasonInsufficientRole Reason = "your role does not permit this action"
	// ReasonCannotRemoveOwner means the removal target holds the owner
	// role, which can never be removed through member removal.
	ReasonCannotRemoveOwner Reason = "the team owner cannot be removed"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns a permitting decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision carrying the reason
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize decides whether userID may perform action on an entity owned
// by team. membership is the (team, user) row, or nil when none exists.
// The team must already be resolved; a missing team or ancestor is a
// not-found condition the caller handles before calling here.
//
// The team owner is allowed unconditionally, even with a missing or
// stale membership row.
func Authorize(userID uint, team *models.Team, membership *models.TeamMember, action Action) Decision {
	if team.OwnerID == userID {
		return Allow()
	}
	if membership == nil {
		return Deny(ReasonNotAMember)
	}
	if !Role(membership.Role).AtLeast(MinRoleFor(action)) {
		return Deny(ReasonInsufficientRole)
	}
	return Allow()
}

// CanDeleteTask applies the task deletion policy: admins and above may
// delete any task, and the task's creator may delete their own task
// whatever their role. Both paths still require membership in the
// task's team (or team ownership).
func CanDeleteTask(userID uint, team *models.Team, membership *models.TeamMember, task *models.Task) Decision {
	return deleteWithCreatorOverride(userID, team, membership, task.CreatedBy)
}

// CanDeleteComment mirrors the task policy for comments: admins and
// above may delete any comment, the author may delete their own.
func CanDeleteComment(userID uint, team *models.Team, membership *models.TeamMember, comment *models.Comment) Decision {
	return deleteWithCreatorOverride(userID, team, membership, comment.UserID)
}

func deleteWithCreatorOverride(userID uint, team *models.Team, membership *models.TeamMember, creatorID uint) Decision {
	if decision := Authorize(userID, team, membership, ActionDelete); decision.Allowed {
		return decision
	}
	if membership == nil {
		return Deny(ReasonNotAMember)
	}
	if creatorID == userID {
		return Allow()
	}
	return Deny(ReasonInsufficientRole)
}

// CanRemoveMember applies the member removal policy: the acting user
// needs ActionManageMembers, and a membership whose role is owner can
// never be removed, regardless of who asks.
func CanRemoveMember(userID uint, team *models.Team, membership *models.TeamMember, target *models.TeamMember) Decision {
	if decision := Authorize(userID, team, membership, ActionManageMembers); !decision.Allowed {
		return decision
	}
	if Role(target.Role) == RoleOwner {
		return Deny(ReasonCannotRemoveOwner)
	}
	return Allow()
}
