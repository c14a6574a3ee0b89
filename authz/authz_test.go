package authz

import (
	"testing"

	"teamboard/models"

	"github.com/stretchr/testify/require"
)

func team(ownerID uint) *models.Team {
	t := &models.Team{Name: "acme", OwnerID: ownerID}
	t.ID = 1
	return t
}

func member(teamID, userID uint, role Role) *models.TeamMember {
	return &models.TeamMember{TeamID: teamID, UserID: userID, Role: string(role)}
}

func TestRoleOrder(t *testing.T) {
	require.True(t, RoleOwner.AtLeast(RoleAdmin))
	require.True(t, RoleAdmin.AtLeast(RoleEditor))
	require.True(t, RoleEditor.AtLeast(RoleViewer))
	require.True(t, RoleViewer.AtLeast(RoleViewer))

	require.False(t, RoleViewer.AtLeast(RoleEditor))
	require.False(t, RoleEditor.AtLeast(RoleAdmin))
	require.False(t, RoleAdmin.AtLeast(RoleOwner))

	// unknown roles rank below everything
	require.False(t, Role("superuser").AtLeast(RoleViewer))
	require.False(t, Role("").Valid())
	require.True(t, RoleEditor.Valid())
}

func TestMinRoleFor(t *testing.T) {
	require.Equal(t, RoleViewer, MinRoleFor(ActionView))
	require.Equal(t, RoleViewer, MinRoleFor(ActionCreate))
	require.Equal(t, RoleEditor, MinRoleFor(ActionEdit))
	require.Equal(t, RoleAdmin, MinRoleFor(ActionDelete))
	require.Equal(t, RoleAdmin, MinRoleFor(ActionManageMembers))
	require.Equal(t, RoleOwner, MinRoleFor(ActionDeleteTeam))
}

// The owner is allowed for every action even when no membership row
// exists for them.
func TestAuthorizeOwnerBypass(t *testing.T) {
	tm := team(7)
	actions := []Action{ActionView, ActionCreate, ActionDelete, ActionManageMembers, ActionDeleteTeam}

	for _, action := range actions {
		d := Authorize(7, tm, nil, action)
		require.True(t, d.Allowed, "owner without membership row, action %s", action)
	}

	// a stale viewer row does not demote the owner
	for _, action := range actions {
		d := Authorize(7, tm, member(1, 7, RoleViewer), action)
		require.True(t, d.Allowed, "owner with stale viewer row, action %s", action)
	}
}

func TestAuthorizeNonMember(t *testing.T) {
	tm := team(7)
	for _, action := range []Action{ActionView, ActionCreate, ActionDelete, ActionManageMembers, ActionDeleteTeam} {
		d := Authorize(42, tm, nil, action)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonNotAMember, d.Reason)
	}
}

func TestAuthorizeRoleGrid(t *testing.T) {
	tm := team(7)

	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleViewer, ActionView, true},
		{RoleViewer, ActionCreate, true},
		{RoleViewer, ActionEdit, false},
		{RoleViewer, ActionDelete, false},
		{RoleViewer, ActionManageMembers, false},
		{RoleViewer, ActionDeleteTeam, false},

		{RoleEditor, ActionView, true},
		{RoleEditor, ActionCreate, true},
		{RoleEditor, ActionEdit, true},
		{RoleEditor, ActionDelete, false},
		{RoleEditor, ActionManageMembers, false},
		{RoleEditor, ActionDeleteTeam, false},

		{RoleAdmin, ActionView, true},
		{RoleAdmin, ActionCreate, true},
		{RoleAdmin, ActionEdit, true},
		{RoleAdmin, ActionDelete, true},
		{RoleAdmin, ActionManageMembers, true},
		{RoleAdmin, ActionDeleteTeam, false},

		{RoleOwner, ActionView, true},
		{RoleOwner, ActionCreate, true},
		{RoleOwner, ActionEdit, true},
		{RoleOwner, ActionDelete, true},
		{RoleOwner, ActionManageMembers, true},
		{RoleOwner, ActionDeleteTeam, true},
	}

	for _, tc := range tests {
		d := Authorize(42, tm, member(1, 42, tc.role), tc.action)
		require.Equal(t, tc.allowed, d.Allowed, "role %s action %s", tc.role, tc.action)
		if !tc.allowed {
			require.Equal(t, ReasonInsufficientRole, d.Reason)
		}
	}
}

func TestCanDeleteTask(t *testing.T) {
	tm := team(7)
	task := &models.Task{BoardID: 1, Title: "fix login", CreatedBy: 42}

	// creator override: a viewer may delete their own task
	d := CanDeleteTask(42, tm, member(1, 42, RoleViewer), task)
	require.True(t, d.Allowed)

	// a viewer may not delete someone else's task
	d = CanDeleteTask(43, tm, member(1, 43, RoleViewer), task)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonInsufficientRole, d.Reason)

	// admins delete any task
	d = CanDeleteTask(43, tm, member(1, 43, RoleAdmin), task)
	require.True(t, d.Allowed)

	// owner bypass applies as everywhere
	d = CanDeleteTask(7, tm, nil, task)
	require.True(t, d.Allowed)

	// the creator override does not extend to non-members
	d = CanDeleteTask(42, tm, nil, task)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNotAMember, d.Reason)
}

func TestCanDeleteComment(t *testing.T) {
	tm := team(7)
	comment := &models.Comment{TaskID: 1, UserID: 42, Content: "lgtm"}

	// the author may delete their own comment regardless of role
	d := CanDeleteComment(42, tm, member(1, 42, RoleViewer), comment)
	require.True(t, d.Allowed)

	// other viewers may not
	d = CanDeleteComment(43, tm, member(1, 43, RoleViewer), comment)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonInsufficientRole, d.Reason)

	// admins may delete any comment
	d = CanDeleteComment(43, tm, member(1, 43, RoleAdmin), comment)
	require.True(t, d.Allowed)
}

func TestCanRemoveMember(t *testing.T) {
	tm := team(7)
	ownerRow := member(1, 7, RoleOwner)
	editorRow := member(1, 43, RoleEditor)

	// admins may remove regular members
	d := CanRemoveMember(42, tm, member(1, 42, RoleAdmin), editorRow)
	require.True(t, d.Allowed)

	// editors and viewers may not remove anyone
	for _, role := range []Role{RoleEditor, RoleViewer} {
		d = CanRemoveMember(42, tm, member(1, 42, role), editorRow)
		require.False(t, d.Allowed)
		require.Equal(t, ReasonInsufficientRole, d.Reason)
	}

	// an owner-role row can never be removed, whoever asks
	d = CanRemoveMember(42, tm, member(1, 42, RoleAdmin), ownerRow)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonCannotRemoveOwner, d.Reason)

	// not even the team owner, and the rule holds for a second
	// owner-role row should one ever exist
	strayOwnerRow := member(1, 8, RoleOwner)
	d = CanRemoveMember(7, tm, nil, strayOwnerRow)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonCannotRemoveOwner, d.Reason)

	// non-members cannot remove anyone
	d = CanRemoveMember(99, tm, nil, editorRow)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNotAMember, d.Reason)
}
