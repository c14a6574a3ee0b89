package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"teamboard/authz"
	"teamboard/models"
)

func TestGetTeamActivity(t *testing.T) {
	app, db := newTestApp(t)
	owner := createUser(t, db, "owner@example.com")
	viewer := createUser(t, db, "viewer@example.com")
	outsider := createUser(t, db, "outsider@example.com")

	team := createTeam(t, db, owner, "acme")
	addMember(t, db, team, viewer, authz.RoleViewer)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Activity{
			TeamID:     team.ID,
			UserID:     owner.ID,
			Action:     "created",
			EntityType: "project",
			EntityID:   uint(i + 1),
		}).Error)
	}

	resp := doRequest(t, app, http.MethodGet, teamPath(team, "activity"), tokenFor(t, viewer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []models.Activity `json:"data"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Data, 3)

	resp = doRequest(t, app, http.MethodGet, teamPath(team, "activity")+"?limit=2", tokenFor(t, viewer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Len(t, list.Data, 2)

	resp = doRequest(t, app, http.MethodGet, teamPath(team, "activity"), tokenFor(t, outsider), nil)
	requireAPIError(t, resp, http.StatusForbidden, string(authz.ReasonNotAMember))
}

func TestMutationsRecordActivity(t *testing.T) {
	app, db := newTestApp(t)
	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "acme")
	token := tokenFor(t, owner)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/projects/", token, map[string]interface{}{
		"team_id": team.ID,
		"name":    "launch",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("team_id = ? AND entity_type = ? AND action = ?", team.ID, "project", "created").
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}
