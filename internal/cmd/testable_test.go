package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestableNewSendsCreateForm(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusCreated, map[string]any{"redir_location": "/project/3/edit"})
	})
	loggedIn(t)

	out, err := execute(t, TestableCmd(), "",
		"new", "--project", "3", "--name", "Part 1", "--executable", "a.out",
		"--build-file", "1,2", "--expected-file", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "/project/3/edit")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/testable", reqs[0].Path)
	assert.Equal(t, map[string]any{
		"name":              "Part 1",
		"executable":        "a.out",
		"project_id":        "3",
		"build_file_ids":    []any{"1", "2"},
		"file_verifier_ids": []any{"5"},
	}, reqs[0].Body)
}

func TestTestableEditUsesCatalog(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusOK, map[string]any{"redir_location": "/project/3/edit"})
	})
	loggedIn(t)

	catalog := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(catalog, []byte(`{"execution_files":[{"id":4,"name":"input.txt"}]}`), 0o600))

	_, err := execute(t, TestableCmd(), "",
		"edit", "12", "--name", "Part 2", "--executable", "run.sh", "--hidden",
		"--execution-file", "4", "--catalog", catalog)
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/testable/12", reqs[0].Path)
	assert.Equal(t, "1", reqs[0].Body["is_hidden"])
	assert.Equal(t, []any{"4"}, reqs[0].Body["execution_file_ids"])
	assert.NotContains(t, reqs[0].Body, "project_id")
}

func TestTestableNewDryRun(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})

	out, err := execute(t, TestableCmd(), "",
		"new", "-p", "3", "--name", "Part 1", "--executable", "a.out", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "New Testable")
	assert.Contains(t, out, `"project_id":"3"`)
	assert.Empty(t, fake.Requests())
}

func TestTestableNewRequiresProject(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})
	loggedIn(t)

	_, err := execute(t, TestableCmd(), "", "new", "--name", "x", "--executable", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}

func TestTestableNewRequiresName(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})
	loggedIn(t)

	_, err := execute(t, TestableCmd(), "", "new", "-p", "3", "--executable", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestTestableDeleteConfirms(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusOK, map[string]any{"redir_location": "/project/3/edit"})
	})
	loggedIn(t)

	out, err := execute(t, TestableCmd(), "y\n", "delete", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete testable 5?")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/testable/5", reqs[0].Path)
}

func TestTestableDeleteAborted(t *testing.T) {
	fake := useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})
	loggedIn(t)

	out, err := execute(t, TestableCmd(), "n\n", "delete", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	assert.Empty(t, fake.Requests())
}

func TestTestableDeleteRejectsBadID(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {})
	loggedIn(t)

	_, err := execute(t, TestableCmd(), "", "delete", "five", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}
