package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"teamboard/config"
	controller "teamboard/controllers"
	"teamboard/middleware"
	"teamboard/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authController := controller.NewAuthController(db, log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile), cfg.JWTSecret)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	credentials := auth.Group("", middleware.LoginRateLimiter(cfg))
	credentials.Post("/register", authController.Register)
	credentials.Post("/login", authController.Login)
	auth.Post("/refresh", authController.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected(db, cfg.JWTSecret))
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Get("/me", authController.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize controllers with their respective loggers
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	memberController := controller.NewMemberController(db, log.New(os.Stdout, "MEMBER: ", log.LstdFlags))
	projectController := controller.NewProjectController(db, log.New(os.Stdout, "PROJECT: ", log.LstdFlags))
	boardController := controller.NewBoardController(db, log.New(os.Stdout, "BOARD: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	commentController := controller.NewCommentController(db, log.New(os.Stdout, "COMMENT: ", log.LstdFlags))
	activityController := controller.NewActivityController(db, log.New(os.Stdout, "ACTIVITY: ", log.LstdFlags))

	var mailer *utils.InvitationMailer
	if cfg.SMTPHost != "" {
		mailer = utils.NewInvitationMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.AppURL)
	}
	invitationController := controller.NewInvitationController(db, log.New(os.Stdout, "INVITE: ", log.LstdFlags), mailer)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(db, cfg.JWTSecret), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Team routes
	team := api.Group("/teams")
	team.Get("/", teamController.GetTeams)
	team.Post("/", teamController.CreateTeam)
	team.Delete("/:teamId", teamController.DeleteTeam)
	team.Get("/:teamId/members", memberController.GetTeamMembers)
	team.Post("/:teamId/members", memberController.AddTeamMember)
	team.Delete("/:teamId/members/:userId", memberController.RemoveTeamMember)
	team.Get("/:teamId/projects", projectController.GetProjectsByTeam)
	team.Get("/:teamId/activity", activityController.GetTeamActivity)
	team.Get("/:teamId/invitations", invitationController.GetTeamInvitations)
	team.Post("/:teamId/invitations", invitationController.CreateInvitation)

	// Project routes
	project := api.Group("/projects")
	project.Post("/", projectController.CreateProject)
	project.Delete("/:projectId", projectController.DeleteProject)
	project.Get("/:projectId/boards", boardController.GetBoardsByProject)

	// Board routes
	board := api.Group("/boards")
	board.Post("/", boardController.CreateBoard)
	board.Delete("/:boardId", boardController.DeleteBoard)
	board.Get("/:boardId/tasks", taskController.GetTasksByBoard)

	// Task routes
	task := api.Group("/tasks")
	task.Post("/", taskController.CreateTask)
	task.Put("/:taskId", taskController.UpdateTask)
	task.Delete("/:taskId", taskController.DeleteTask)
	task.Get("/:taskId/comments", commentController.GetCommentsByTask)
	task.Post("/:taskId/comments", commentController.CreateComment)

	// Comment routes
	api.Delete("/comments/:commentId", commentController.DeleteComment)

	// Invitation redemption
	api.Post("/invitations/accept", invitationController.AcceptInvitation)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db, cfg)

	// Setup API routes
	SetupAPIRoutes(app, db, cfg)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
