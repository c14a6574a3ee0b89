package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	controller "teamboard/controllers"
	"teamboard/models"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created controller.AuthResponse
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.AccessToken)
	require.NotEmpty(t, created.RefreshToken)
	require.Equal(t, "new@example.com", created.User.Email)
	require.Empty(t, created.User.PasswordHash)

	// Duplicate registration is rejected
	resp = doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loggedIn controller.AuthResponse
	decodeBody(t, resp, &loggedIn)
	require.NotEmpty(t, loggedIn.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, db := newTestApp(t)
	createUser(t, db, "user@example.com")

	resp := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "not-an-email",
		"password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "short@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetCurrentUser(t *testing.T) {
	app, db := newTestApp(t)
	user := createUser(t, db, "me@example.com")

	resp := doRequest(t, app, http.MethodGet, "/auth/me", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data models.User `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, user.ID, body.Data.ID)
	require.Equal(t, "me@example.com", body.Data.Email)

	resp = doRequest(t, app, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshTokenRotation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "rotate@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session controller.AuthResponse
	decodeBody(t, resp, &session)

	resp = doRequest(t, app, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var renewed controller.AuthResponse
	decodeBody(t, resp, &renewed)
	require.NotEmpty(t, renewed.AccessToken)

	// The old refresh token was revoked by the rotation
	resp = doRequest(t, app, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    "leaving@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session controller.AuthResponse
	decodeBody(t, resp, &session)

	resp = doRequest(t, app, http.MethodPost, "/auth/logout", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
