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

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

// GetTasksByBoard lists a board's tasks, optionally filtered by status
func (tc *TaskController) GetTasksByBoard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	boardID, err := c.ParamsInt("boardId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid board ID", err)
	}

	scope, board, err := scopeForBoard(tc.DB, uint(boardID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Board not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch board", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	query := tc.DB.Where("board_id = ?", board.ID)
	if status := c.Query("status"); status != "" {
		if !models.ValidTaskStatus(status) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task status", nil)
		}
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("order_index asc").Find(&tasks).Error; err != nil {
		tc.Logger.Printf("Failed to list tasks for board %d: %v", board.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// CreateTask creates a task on a board. Any member of the board's own
// team may create.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		BoardID     uint       `json:"board_id" validate:"required"`
		Title       string     `json:"title" validate:"required,max=500"`
		Description string     `json:"description" validate:"omitempty,max=5000"`
		Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
		AssigneeID  *uint      `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, board, err := scopeForBoard(tc.DB, input.BoardID, user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Board not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch board", err)
	}

	// Membership is checked against the board's own team
	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionCreate); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		BoardID:     board.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   user.ID,
		DueDate:     input.DueDate,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		tc.Logger.Printf("Failed to create task on board %d: %v", board.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	if err := recordActivity(tc.DB, scope.Team.ID, user.ID, "created", "task", task.ID); err != nil {
		tc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// UpdateTask updates a task's mutable attributes. Editors and above.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,max=500"`
		Description *string    `json:"description" validate:"omitempty,max=5000"`
		Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
		Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
		AssigneeID  *uint      `json:"assignee_id"`
		DueDate     *time.Time `json:"due_date"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, task, err := scopeForTask(tc.DB, uint(taskID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionEdit); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := tc.DB.Save(task).Error; err != nil {
		tc.Logger.Printf("Failed to update task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	if err := recordActivity(tc.DB, scope.Team.ID, user.ID, "updated", "task", task.ID); err != nil {
		tc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTask deletes a task. Admins and above, or the task's creator.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	scope, task, err := scopeForTask(tc.DB, uint(taskID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if decision := authz.CanDeleteTask(user.ID, scope.Team, scope.Membership, task); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		return recordActivity(tx, scope.Team.ID, user.ID, "deleted", "task", task.ID)
	})
	if err != nil {
		tc.Logger.Printf("Failed to delete task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"task":    task,
	})
}
