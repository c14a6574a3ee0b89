package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type ActivityController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewActivityController(db *gorm.DB, logger *log.Logger) *ActivityController {
	return &ActivityController{
		DB:     db,
		Logger: logger,
	}
}

// GetTeamActivity returns the team's audit feed, newest first. Any
// member may look.
func (ac *ActivityController) GetTeamActivity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	scope, err := scopeForTeam(ac.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var activities []models.Activity
	if err := ac.DB.Where("team_id = ?", scope.Team.ID).Order("created_at desc").Limit(limit).Find(&activities).Error; err != nil {
		ac.Logger.Printf("Failed to list activity for team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch activity", err)
	}

	return c.JSON(utils.SuccessResponse(activities))
}
