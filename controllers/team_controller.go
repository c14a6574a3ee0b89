package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// GetTeams returns every team the caller belongs to or owns
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var teams []models.Team
	err := tc.DB.Distinct("teams.*").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id AND team_members.user_id = ? AND team_members.deleted_at IS NULL", user.ID).
		Where("teams.owner_id = ? OR team_members.user_id = ?", user.ID, user.ID).
		Find(&teams).Error
	if err != nil {
		tc.Logger.Printf("Failed to list teams for user %d: %v", user.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(utils.SuccessResponse(teams))
}

// CreateTeam creates a team; the creator becomes its owner and gets an
// owner-role membership row.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=2000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	team := models.Team{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     user.ID,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		member := models.TeamMember{
			TeamID: team.ID,
			UserID: user.ID,
			Role:   string(authz.RoleOwner),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return recordActivity(tx, team.ID, user.ID, "created", "team", team.ID)
	})
	if err != nil {
		tc.Logger.Printf("Failed to create team: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// DeleteTeam deletes a team and everything under it. Owner only.
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	scope, err := scopeForTeam(tc.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionDeleteTeam); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	team := scope.Team
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		boardIDs := func() *gorm.DB {
			return tx.Model(&models.Board{}).Select("boards.id").
				Joins("JOIN projects ON projects.id = boards.project_id").
				Where("projects.team_id = ?", team.ID)
		}
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("tasks.id").
				Where("board_id IN (?)", boardIDs())
		}

		// Delete bottom-up to respect foreign keys
		if err := tx.Where("task_id IN (?)", taskIDs()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id IN (?)", boardIDs()).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN (?)", boardIDs()).Delete(&models.Board{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
	if err != nil {
		tc.Logger.Printf("Failed to delete team %d: %v", team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", err)
	}

	return c.JSON(fiber.Map{
		"message": "Team deleted successfully",
		"team":    team,
	})
}
