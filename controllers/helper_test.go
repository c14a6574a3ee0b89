package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamboard/authz"
	"teamboard/config"
	"teamboard/models"
	"teamboard/routes"
	"teamboard/utils"
)

const testJWTSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDB(db))

	cfg := &config.Config{
		Environment:       "test",
		ServerPort:        "0",
		AppURL:            "http://localhost:5000",
		JWTSecret:         testJWTSecret,
		RateLimitLogin:    1000,
		InvitationTTL:     7 * 24 * time.Hour,
		ActivityRetention: 90 * 24 * time.Hour,
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         email,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	access, _, err := utils.GenerateJWTToken(user, testJWTSecret)
	require.NoError(t, err)
	return access
}

func createTeam(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID,
		UserID: owner.ID,
		Role:   string(authz.RoleOwner),
	}).Error)
	return team
}

func addMember(t *testing.T, db *gorm.DB, team *models.Team, user *models.User, role authz.Role) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: string(role)}
	require.NoError(t, db.Create(member).Error)
	return member
}

func createProject(t *testing.T, db *gorm.DB, team *models.Team, creator *models.User) *models.Project {
	t.Helper()

	project := &models.Project{TeamID: team.ID, Name: "project", CreatedBy: creator.ID}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createBoard(t *testing.T, db *gorm.DB, project *models.Project) *models.Board {
	t.Helper()

	board := &models.Board{ProjectID: project.ID, Name: "board"}
	require.NoError(t, db.Create(board).Error)
	return board
}

func createTask(t *testing.T, db *gorm.DB, board *models.Board, creator *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		BoardID:   board.ID,
		Title:     "task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatedBy: creator.ID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// doRequest performs a JSON request against the test app, with an
// optional bearer token.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func teamPath(team *models.Team, parts ...string) string {
	path := fmt.Sprintf("/api/v1/teams/%d", team.ID)
	for _, part := range parts {
		path += "/" + part
	}
	return path
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func requireAPIError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)

	var body apiError
	decodeBody(t, resp, &body)
	require.Equal(t, message, body.Error)
}
