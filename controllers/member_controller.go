package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type MemberController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewMemberController(db *gorm.DB, logger *log.Logger) *MemberController {
	return &MemberController{
		DB:     db,
		Logger: logger,
	}
}

// MemberResponse is the member list row shape: user profile plus role
type MemberResponse struct {
	ID       uint      `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// GetTeamMembers lists a team's members. Any member may look.
func (mc *MemberController) GetTeamMembers(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	scope, err := scopeForTeam(mc.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var members []MemberResponse
	err = mc.DB.Model(&models.TeamMember{}).
		Select("users.id, users.email, users.name, team_members.role, team_members.joined_at").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", scope.Team.ID).
		Scan(&members).Error
	if err != nil {
		mc.Logger.Printf("Failed to list members for team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch members", err)
	}

	return c.JSON(utils.SuccessResponse(members))
}

// AddTeamMember adds an existing user to a team by email. Admins and
// above only. The owner role cannot be handed out here.
func (mc *MemberController) AddTeamMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	var input struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=admin editor viewer"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, err := scopeForTeam(mc.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionManageMembers); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var targetUser models.User
	if err := mc.DB.Where("email = ?", input.Email).First(&targetUser).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}

	var existing models.TeamMember
	if err := mc.DB.Where("team_id = ? AND user_id = ?", scope.Team.ID, targetUser.ID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User is already a member of this team", nil)
	}

	member := models.TeamMember{
		TeamID: scope.Team.ID,
		UserID: targetUser.ID,
		Role:   input.Role,
	}
	if err := mc.DB.Create(&member).Error; err != nil {
		mc.Logger.Printf("Failed to add member to team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	if err := recordActivity(mc.DB, scope.Team.ID, user.ID, "member_added", "member", targetUser.ID); err != nil {
		mc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(member))
}

// RemoveTeamMember removes a member from a team. Admins and above only;
// an owner-role membership can never be removed through this path.
func (mc *MemberController) RemoveTeamMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}
	memberUserID, err := c.ParamsInt("userId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member user ID", err)
	}

	scope, err := scopeForTeam(mc.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	var target models.TeamMember
	if err := mc.DB.Where("team_id = ? AND user_id = ?", scope.Team.ID, uint(memberUserID)).First(&target).Error; err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch member", err)
	}

	if decision := authz.CanRemoveMember(user.ID, scope.Team, scope.Membership, &target); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	// Hard delete so the user can be re-added later without tripping
	// the unique (team, user) index.
	if err := mc.DB.Unscoped().Delete(&target).Error; err != nil {
		mc.Logger.Printf("Failed to remove member from team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	if err := recordActivity(mc.DB, scope.Team.ID, user.ID, "member_removed", "member", target.UserID); err != nil {
		mc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.JSON(fiber.Map{
		"message": "Member removed successfully",
		"member":  target,
	})
}
