package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudibranch/nudi/cli/internal/config"
)

func TestLoginSavesSessionCookie(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		if rec.Method == http.MethodPut && rec.Path == "/session" {
			http.SetCookie(w, &http.Cookie{Name: "auth_tkt", Value: "tkt123", Path: "/"})
			writeJSON(w, http.StatusCreated, map[string]any{"redir_location": "/user/1"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	out, err := execute(t, LoginCmd(), "a@b.c\nsecret\n")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as a@b.c")
	assert.Contains(t, out, "/user/1")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "a@b.c", reqs[0].Body["email"])
	assert.Equal(t, "secret", reqs[0].Body["password"])

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "auth_tkt=tkt123", cfg.SessionCookie)
	assert.Equal(t, "a@b.c", cfg.Email)
}

func TestLoginEmailFlagSkipsPrompt(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		http.SetCookie(w, &http.Cookie{Name: "auth_tkt", Value: "x"})
		writeJSON(w, http.StatusCreated, map[string]any{"redir_location": "/"})
	})

	_, err := execute(t, LoginCmd(), "secret\n", "--email", "flag@b.c")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "flag@b.c", cfg.Email)
}

func TestLoginRejectedShowsServerMessage(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "Conflict", "message": "Invalid login"})
	})

	out, err := execute(t, LoginCmd(), "a@b.c\nwrong\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "Invalid login")

	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoginRejectsEmptyEmail(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
	})

	_, err := execute(t, LoginCmd(), "\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}

func TestLoginRejectsEmptyPassword(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
	})

	_, err := execute(t, LoginCmd(), "a@b.c\n\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}

func TestLogoutClearsSession(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusGone, map[string]any{"redir_location": "/"})
	})
	loggedIn(t)

	out, err := execute(t, LogoutCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/session", reqs[0].Path)
	assert.Equal(t, "auth_tkt=abc", reqs[0].Cookie)

	_, err = config.Load()
	assert.ErrorIs(t, err, config.ErrNoSession)
}

func TestLogoutNotLoggedIn(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})

	_, err := execute(t, LogoutCmd(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}
