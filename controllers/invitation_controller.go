package controller

import (
	"log"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type InvitationController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Mailer *utils.InvitationMailer // nil when SMTP is not configured
}

func NewInvitationController(db *gorm.DB, logger *log.Logger, mailer *utils.InvitationMailer) *InvitationController {
	return &InvitationController{
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}
}

// GetTeamInvitations lists a team's invitations. Admins and above only.
func (ic *InvitationController) GetTeamInvitations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	scope, err := scopeForTeam(ic.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionManageMembers); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var invitations []models.Invitation
	if err := ic.DB.Where("team_id = ?", scope.Team.ID).Order("created_at desc").Find(&invitations).Error; err != nil {
		ic.Logger.Printf("Failed to list invitations for team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch invitations", err)
	}

	return c.JSON(utils.SuccessResponse(invitations))
}

// CreateInvitation issues an invitation for an email address. Admins
// and above only. Delivery failures do not fail the request.
func (ic *InvitationController) CreateInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	var input struct {
		Email string `json:"email" validate:"required"`
		Role  string `json:"role" validate:"required,oneof=admin editor viewer"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}

	scope, err := scopeForTeam(ic.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionManageMembers); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var pending models.Invitation
	if err := ic.DB.Where("team_id = ? AND email = ? AND status = ?", scope.Team.ID, input.Email, models.InvitationStatusPending).First(&pending).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "An invitation for this email is already pending", nil)
	}

	invitation := models.Invitation{
		TeamID: scope.Team.ID,
		Email:  input.Email,
		Role:   input.Role,
		Token:  uuid.NewString(),
		Status: models.InvitationStatusPending,
	}
	if err := ic.DB.Create(&invitation).Error; err != nil {
		ic.Logger.Printf("Failed to create invitation for team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invitation", err)
	}

	if ic.Mailer != nil {
		if err := ic.Mailer.Send(invitation.Email, scope.Team.Name, invitation.Role, invitation.Token); err != nil {
			utils.LogError("invitation_mail_failed", err, map[string]interface{}{
				"team_id": scope.Team.ID,
				"email":   invitation.Email,
			})
		}
	}

	if err := recordActivity(ic.DB, scope.Team.ID, user.ID, "invited", "member", invitation.ID); err != nil {
		ic.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invitation))
}

// AcceptInvitation redeems an invitation token for the authenticated
// user and creates the membership.
func (ic *InvitationController) AcceptInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Token string `json:"token" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var invitation models.Invitation
	if err := ic.DB.Where("token = ?", input.Token).First(&invitation).Error; err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Invitation not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch invitation", err)
	}

	if invitation.Status != models.InvitationStatusPending {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invitation is no longer valid", nil)
	}
	if invitation.Email != user.Email {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Invitation was issued for a different email address", nil)
	}

	var team models.Team
	if err := ic.DB.First(&team, invitation.TeamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.TeamMember
		err := tx.Where("team_id = ? AND user_id = ?", team.ID, user.ID).First(&existing).Error
		switch {
		case err == nil:
			// Already a member, just consume the invitation
		case isNotFound(err):
			member := models.TeamMember{
				TeamID: team.ID,
				UserID: user.ID,
				Role:   invitation.Role,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		default:
			return err
		}

		invitation.Status = models.InvitationStatusAccepted
		if err := tx.Save(&invitation).Error; err != nil {
			return err
		}
		return recordActivity(tx, team.ID, user.ID, "member_added", "member", user.ID)
	})
	if err != nil {
		ic.Logger.Printf("Failed to accept invitation %d: %v", invitation.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to accept invitation", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"team":       team,
		"invitation": invitation,
	}))
}
