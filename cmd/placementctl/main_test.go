package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
)

const token = "cli-token"

func envelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dto.NewAPIResponse(data))
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	apps := []models.Application{
		{ID: 1, DriveID: 3, StudentEmail: "a@x.edu", Status: models.StatusApplied},
		{ID: 2, DriveID: 3, StudentEmail: "b@x.edu", Status: models.StatusApplied},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, dto.TokenResponse{Token: token, UserID: 1, Name: "Admin User", Email: "admin@college.edu", Role: models.RoleAdmin})
	})
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("GET /api/v1/analytics", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, dto.AnalyticsResponse{
			TotalDrives: 5, ActiveDrives: 4, TotalStudents: 5, TotalApplications: 6,
			DepartmentStats: map[string]int64{"Computer Science": 2, "Electronics": 1},
			StatusStats:     map[string]int64{},
		})
	}))
	mux.HandleFunc("GET /api/v1/applications", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, apps)
	}))
	mux.HandleFunc("POST /api/v1/applications/drive/{id}/import", authed(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		envelope(w, dto.ImportResponse{SuccessCount: 2, Summary: "Updated 2 applications, 0 failed (selected: 2)"})
	}))
	mux.HandleFunc("PUT /api/v1/applications/{id}/status", authed(func(w http.ResponseWriter, r *http.Request) {
		var req dto.UpdateStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		envelope(w, models.Application{ID: 1, Status: req.Status})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, session string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--server", srv.URL, "--session", session}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginThenAnalytics(t *testing.T) {
	srv := newFakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, srv, session, "login", "-e", "admin@college.edu", "-p", "demo123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Admin User")

	out, err = run(t, srv, session, "analytics")
	require.NoError(t, err)
	assert.Contains(t, out, "Drives:        5 (4 active)")
	assert.Contains(t, out, "Computer Science")
	assert.Contains(t, out, "(none)")
}

func TestCommandsNeedSession(t *testing.T) {
	srv := newFakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, srv, session, "analytics")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestImportCommand(t *testing.T) {
	srv := newFakeServer(t)
	dir := t.TempDir()
	session := filepath.Join(dir, "session.json")
	csv := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(csv, []byte("email,status\na@x.edu,selected\nz@x.edu,rejected\n"), 0o600))

	_, err := run(t, srv, session, "login", "-e", "admin@college.edu", "-p", "demo123")
	require.NoError(t, err)

	out, err := run(t, srv, session, "import", "3", csv)
	require.NoError(t, err)
	assert.Equal(t, "Updated 1 application, 1 failed (selected: 1)\n", out)

	_, err = run(t, srv, session, "import", "3", filepath.Join(dir, "results.txt"))
	assert.Error(t, err)
}

func TestImportRemoteWithServerFlag(t *testing.T) {
	srv := newFakeServer(t)
	dir := t.TempDir()
	session := filepath.Join(dir, "session.json")
	csv := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(csv, []byte("email,status\na@x.edu,selected\nb@x.edu,selected\n"), 0o600))

	_, err := run(t, srv, session, "login", "-e", "admin@college.edu", "-p", "demo123")
	require.NoError(t, err)

	// --server is the persistent URL flag and must still parse after the subcommand
	out, err := run(t, srv, session, "import", "--remote", "3", csv, "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Updated 2 applications, 0 failed (selected: 2)\n", out)
}
