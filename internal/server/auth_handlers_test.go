package server

import (
	"net/http"
	"testing"

	"warble/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	s, app := setupTestServer(t)

	resp, body := doRequest(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/", body["redirect"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "response carries the created user")
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, models.DefaultImageURL, user["image_url"])
	_, leaked := user["password"]
	assert.False(t, leaked, "password hash must never serialize")

	// Signup establishes a session immediately.
	cookie := sessionCookie(t, resp)
	resp, body = doRequest(t, app, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["anonymous"])

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignupDuplicateEmail(t *testing.T) {
	s, app := setupTestServer(t)
	signupUser(t, app, "alice")

	resp, body := doRequest(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "different",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username or email already taken", body["error"])

	// The failed attempt must not create a second account.
	var count int64
	s.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignupValidation(t *testing.T) {
	_, app := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing fields", map[string]string{"username": "alice"}},
		{"short username", map[string]string{"username": "ab", "email": "a@example.com", "password": "password123"}},
		{"bad email", map[string]string{"username": "alice", "email": "nope", "password": "password123"}},
		{"short password", map[string]string{"username": "alice", "email": "a@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/signup", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := setupTestServer(t)
	signupUser(t, app, "alice")

	t.Run("success", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/login", map[string]string{
			"username": "alice",
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Hello, alice!", body["message"])
		assert.Equal(t, "/", body["redirect"])
		sessionCookie(t, resp)
	})

	// Unknown username and wrong password produce identical responses.
	t.Run("wrong password", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/login", map[string]string{
			"username": "alice",
			"password": "wrong-password",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials.", body["error"])
	})

	t.Run("unknown username", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/login", map[string]string{
			"username": "nobody",
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials.", body["error"])
	})
}

func TestLogoutRevokesSession(t *testing.T) {
	_, app := setupTestServer(t)
	cookie := signupUser(t, app, "alice")

	resp, body := doRequest(t, app, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", body["redirect"])

	// The old cookie no longer authenticates.
	resp, _ = doRequest(t, app, http.MethodPost, "/messages/new", map[string]string{"text": "hi"}, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doRequest(t, app, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["anonymous"])
}

func TestLogoutWithoutSession(t *testing.T) {
	_, app := setupTestServer(t)

	resp, _ := doRequest(t, app, http.MethodPost, "/logout", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFormEndpoints(t *testing.T) {
	_, app := setupTestServer(t)

	resp, body := doRequest(t, app, http.MethodGet, "/signup", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.DefaultImageURL, body["default_image_url"])

	resp, _ = doRequest(t, app, http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
