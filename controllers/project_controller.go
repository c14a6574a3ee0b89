package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type ProjectController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewProjectController(db *gorm.DB, logger *log.Logger) *ProjectController {
	return &ProjectController{
		DB:     db,
		Logger: logger,
	}
}

// GetProjectsByTeam lists a team's projects. Any member may look.
func (pc *ProjectController) GetProjectsByTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	teamID, err := c.ParamsInt("teamId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid team ID", err)
	}

	scope, err := scopeForTeam(pc.DB, uint(teamID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var projects []models.Project
	if err := pc.DB.Where("team_id = ?", scope.Team.ID).Find(&projects).Error; err != nil {
		pc.Logger.Printf("Failed to list projects for team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch projects", err)
	}

	return c.JSON(utils.SuccessResponse(projects))
}

// CreateProject creates a project in a team. Any member may create.
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		TeamID      uint   `json:"team_id" validate:"required"`
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=2000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, err := scopeForTeam(pc.DB, input.TeamID, user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionCreate); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	project := models.Project{
		TeamID:      scope.Team.ID,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   user.ID,
	}
	if err := pc.DB.Create(&project).Error; err != nil {
		pc.Logger.Printf("Failed to create project in team %d: %v", scope.Team.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create project", err)
	}

	if err := recordActivity(pc.DB, scope.Team.ID, user.ID, "created", "project", project.ID); err != nil {
		pc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(project))
}

// DeleteProject deletes a project and its boards and tasks. Admins and
// above only.
func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projectID, err := c.ParamsInt("projectId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project ID", err)
	}

	scope, project, err := scopeForProject(pc.DB, uint(projectID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch project", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionDelete); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		boardIDs := func() *gorm.DB {
			return tx.Model(&models.Board{}).Select("id").Where("project_id = ?", project.ID)
		}
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("id").Where("board_id IN (?)", boardIDs())
		}

		if err := tx.Where("task_id IN (?)", taskIDs()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id IN (?)", boardIDs()).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Board{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(project).Error; err != nil {
			return err
		}
		return recordActivity(tx, scope.Team.ID, user.ID, "deleted", "project", project.ID)
	})
	if err != nil {
		pc.Logger.Printf("Failed to delete project %d: %v", project.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete project", err)
	}

	return c.JSON(fiber.Map{
		"message": "Project removed",
		"project": project,
	})
}
