package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"employee-service/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) chi.Router {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(newFakeUserRepository(), newFakeTokenRepository())
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := NewHandler(svc, logger, metrics.NewMock())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/register", RegisterRequest{Username: "alice", Password: "secretpass"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)

	// Auth cookie set on success
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/register", RegisterRequest{Username: "alice", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/register", RegisterRequest{Username: "bob", Password: "secretpass"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/register", RegisterRequest{Username: "bob", Password: "secretpass"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginHandler(t *testing.T) {
	router := setupHandler(t)

	postJSON(t, router, "/auth/register", RegisterRequest{Username: "carol", Password: "secretpass"})

	w := postJSON(t, router, "/auth/login", LoginRequest{Username: "carol", Password: "secretpass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	router := setupHandler(t)

	postJSON(t, router, "/auth/register", RegisterRequest{Username: "dave", Password: "secretpass"})

	w := postJSON(t, router, "/auth/login", LoginRequest{Username: "dave", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginHandler_UnknownUser(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/login", LoginRequest{Username: "nobody", Password: "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshHandler(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/register", RegisterRequest{Username: "erin", Password: "secretpass"})
	var registered AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&registered))

	w = postJSON(t, router, "/auth/refresh", RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshHandler_Invalid(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/refresh", RefreshRequest{RefreshToken: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutHandler(t *testing.T) {
	router := setupHandler(t)

	w := postJSON(t, router, "/auth/register", RegisterRequest{Username: "frank", Password: "secretpass"})
	var registered AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&registered))

	w = postJSON(t, router, "/auth/logout", RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = postJSON(t, router, "/auth/refresh", RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
