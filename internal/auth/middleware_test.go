package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var gotUserID int
	var gotUsername string
	protected := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotUsername, _ = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := GenerateAccessToken(7, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, gotUserID)
	assert.Equal(t, "alice", gotUsername)
}

func TestMiddleware_NoCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	protected := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_BadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	protected := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
