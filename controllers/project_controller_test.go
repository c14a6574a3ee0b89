package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"teamboard/authz"
	"teamboard/models"
)

func TestCreateProjectAnyMember(t *testing.T) {
	app, db := newTestApp(t)
	owner := createUser(t, db, "owner@example.com")
	viewer := createUser(t, db, "viewer@example.com")
	outsider := createUser(t, db, "outsider@example.com")

	team := createTeam(t, db, owner, "acme")
	addMember(t, db, team, viewer, authz.RoleViewer)

	payload := map[string]interface{}{"team_id": team.ID, "name": "website"}

	// any membership suffices for creation
	resp := doRequest(t, app, http.MethodPost, "/api/v1/projects/", tokenFor(t, viewer), payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Data models.Project `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, team.ID, body.Data.TeamID)
	require.Equal(t, viewer.ID, body.Data.CreatedBy)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/projects/", tokenFor(t, outsider), payload)
	requireAPIError(t, resp, http.StatusForbidden, string(authz.ReasonNotAMember))

	resp = doRequest(t, app, http.MethodPost, "/api/v1/projects/", tokenFor(t, owner), map[string]interface{}{
		"team_id": 9999,
		"name":    "orphan",
	})
	requireAPIError(t, resp, http.StatusNotFound, "Team not found")
}

func TestDeleteProjectRequiresAdmin(t *testing.T) {
	app, db := newTestApp(t)
	owner := createUser(t, db, "owner@example.com")
	editor := createUser(t, db, "editor@example.com")
	admin := createUser(t, db, "admin@example.com")

	team := createTeam(t, db, owner, "acme")
	addMember(t, db, team, editor, authz.RoleEditor)
	addMember(t, db, team, admin, authz.RoleAdmin)

	project := createProject(t, db, team, owner)
	board := createBoard(t, db, project)
	createTask(t, db, board, owner)

	path := fmt.Sprintf("/api/v1/projects/%d", project.ID)

	resp := doRequest(t, app, http.MethodDelete, path, tokenFor(t, editor), nil)
	requireAPIError(t, resp, http.StatusForbidden, string(authz.ReasonInsufficientRole))

	resp = doRequest(t, app, http.MethodDelete, path, tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// boards and tasks under the project are gone too
	var count int64
	require.NoError(t, db.Model(&models.Board{}).Where("project_id = ?", project.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Task{}).Where("board_id = ?", board.ID).Count(&count).Error)
	require.Zero(t, count)

	resp = doRequest(t, app, http.MethodDelete, path, tokenFor(t, admin), nil)
	requireAPIError(t, resp, http.StatusNotFound, "Project not found")
}

func TestGetProjectsByTeam(t *testing.T) {
	app, db := newTestApp(t)
	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "acme")
	createProject(t, db, team, owner)
	createProject(t, db, team, owner)

	resp := doRequest(t, app, http.MethodGet, teamPath(team, "projects"), tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []models.Project `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Data, 2)
}
