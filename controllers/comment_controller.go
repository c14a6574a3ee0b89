package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/models"
	"teamboard/utils"
)

type CommentController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCommentController(db *gorm.DB, logger *log.Logger) *CommentController {
	return &CommentController{
		DB:     db,
		Logger: logger,
	}
}

// GetCommentsByTask lists a task's comments, oldest first
func (cc *CommentController) GetCommentsByTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	scope, task, err := scopeForTask(cc.DB, uint(taskID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionView); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	var comments []models.Comment
	if err := cc.DB.Where("task_id = ?", task.ID).Order("created_at asc").Find(&comments).Error; err != nil {
		cc.Logger.Printf("Failed to list comments for task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch comments", err)
	}

	return c.JSON(utils.SuccessResponse(comments))
}

// CreateComment adds a comment to a task. Any member may comment.
func (cc *CommentController) CreateComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	taskID, err := c.ParamsInt("taskId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	var input struct {
		Content string `json:"content" validate:"required,max=5000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	scope, task, err := scopeForTask(cc.DB, uint(taskID), user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if decision := authz.Authorize(user.ID, scope.Team, scope.Membership, authz.ActionCreate); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	comment := models.Comment{
		TaskID:  task.ID,
		UserID:  user.ID,
		Content: input.Content,
	}
	if err := cc.DB.Create(&comment).Error; err != nil {
		cc.Logger.Printf("Failed to create comment on task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create comment", err)
	}

	if err := recordActivity(cc.DB, scope.Team.ID, user.ID, "created", "comment", comment.ID); err != nil {
		cc.Logger.Printf("Failed to record activity: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(comment))
}

// DeleteComment deletes a comment. Admins and above, or the author.
func (cc *CommentController) DeleteComment(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	commentID, err := c.ParamsInt("commentId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", err)
	}

	var comment models.Comment
	if err := cc.DB.First(&comment, uint(commentID)).Error; err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch comment", err)
	}

	scope, _, err := scopeForTask(cc.DB, comment.TaskID, user.ID)
	if err != nil {
		if isNotFound(err) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if decision := authz.CanDeleteComment(user.ID, scope.Team, scope.Membership, &comment); !decision.Allowed {
		return utils.ErrorResponse(c, fiber.StatusForbidden, string(decision.Reason), nil)
	}

	if err := cc.DB.Delete(&comment).Error; err != nil {
		cc.Logger.Printf("Failed to delete comment %d: %v", comment.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete comment", err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment deleted successfully",
		"comment": comment,
	})
}
