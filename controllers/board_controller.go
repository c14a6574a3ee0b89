package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type BoardController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewBoardController(db *gorm.DB, logger *log.Logger) *BoardController {
	return &BoardController{
		DB:     db,
		Logger: logger,
	}
}

// GetBoardsByProject lists a project's boards in display order
func (bc *BoardController) GetBoardsByProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	projectID, err := c.ParamsInt("projectId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project ID", err)
	}

	scope, project, err := scopeForProject(bc.DB, uint(projectID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch project", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var boards []models.Board
	if err := bc.DB.Where("project_id = ?", project.ID).Order("order_index asc").Find(&boards).Error; err != nil {
		bc.Logger.Printf("Failed to list boards for project %d: %v", project.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch boards", err)
	}

	return c.JSON(utils.SuccessResponse(boards))
}

// CreateBoard creates a board at the end of the project's display
// order. Any member may create.
func (bc *BoardController) CreateBoard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		ProjectID uint   `json:"project_id" validate:"required"`
		Name      string `json:"name" validate:"required,max=200"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, project, err := scopeForProject(bc.DB, input.ProjectID, user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch project", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionCreate); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var board models.Board
	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		// Next order index is max(existing)+1. The lookup is unscoped
		// so indexes are never reused after deletion; gaps are expected.
		var lastBoard models.Board
		nextOrderIndex := 0
		err := tx.Unscoped().Where("project_id = ?", project.ID).Order("order_index desc").First(&lastBoard).Error
		switch {
		case err == nil:
			nextOrderIndex = lastBoard.OrderIndex + 1
		case isNotFound(err):
		default:
			return err
		}

		board = models.Board{
			ProjectID:  project.ID,
			Name:       input.Name,
			OrderIndex: nextOrderIndex,
		}
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		return recordActivity(tx, scope.Team.ID, user.ID, "created", "board", board.ID)
	})
	if err != nil {
		bc.Logger.Printf("Failed to create board in project %d: %v", project.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create board", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(board))
}

// DeleteBoard deletes a board and its tasks. Admins and above only.
func (bc *BoardController) DeleteBoard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	boardID, err := c.ParamsInt("boardId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid board ID", err)
	}

	scope, board, err := scopeForBoard(bc.DB, uint(boardID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Board not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch board", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionDelete); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("id").Where("board_id = ?", board.ID)
		}
		if err := tx.Where("task_id IN (?)", taskIDs()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(board).Error; err != nil {
			return err
		}
		return recordActivity(tx, scope.Team.ID, user.ID, "deleted", "board", board.ID)
	})
	if err != nil {
		bc.Logger.Printf("Failed to delete board %d: %v", board.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete board", err)
	}

	return c.JSON(fiber.Map{
		"message": "Board deleted successfully",
		"board":   board,
	})
}
