// Package client talks to the placement API on behalf of one signed-in user.
//
// The session is owned by a SessionManager; every request carries its token
// and a 401 answer signs the user out. Lists are always re-fetched after a
// change: the client never patches local copies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
)

// APIPrefix is the versioned root every endpoint lives under
const APIPrefix = "/api/v1"

// Config configures a Client
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080
	BaseURL string
	Timeout time.Duration
	// OnUnauthorized runs after a 401 ended the session
	OnUnauthorized func()
	Logger         *zerolog.Logger
	// Transport defaults to http.DefaultTransport
	Transport http.RoundTripper
}

// Client is the typed placement API client
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *SessionManager
	logger   zerolog.Logger
}

// New creates a Client bound to sessions
func New(cfg Config, sessions *SessionManager) *Client {
	lgr := zerolog.Nop()
	if cfg.Logger != nil {
		lgr = *cfg.Logger
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + APIPrefix,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &authTransport{
				base:           base,
				sessions:       sessions,
				onUnauthorized: cfg.OnUnauthorized,
				logger:         lgr,
			},
		},
		sessions: sessions,
		logger:   lgr,
	}
}

// Session returns the current session
func (c *Client) Session() Session {
	return c.sessions.Current()
}

// do sends a request and decodes the data member of the envelope into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := newAPIError(resp.StatusCode, data)
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("code", string(apiErr.Code)).Msg("API request failed")
		return apiErr
	}

	if out == nil {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response of %s %s carries no data", method, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data of %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) doMultipart(ctx context.Context, path, fileName string, content io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// --- Session ---

// RegisterInput is a new account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.RoleType
}

// Login signs in and stores the session. Rejected credentials are KindAuth.
func (c *Client) Login(ctx context.Context, email, password string) (Identity, error) {
	var resp dto.TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return Identity{}, asAuthFailure(err)
	}
	return c.startSession(resp)
}

// Register creates an account and signs in as it. A taken email is KindAuth.
func (c *Client) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	var resp dto.TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", dto.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	}, &resp)
	if err != nil {
		return Identity{}, asAuthFailure(err)
	}
	return c.startSession(resp)
}

func (c *Client) startSession(resp dto.TokenResponse) (Identity, error) {
	id := Identity{ID: resp.UserID, Name: resp.Name, Email: resp.Email, Role: resp.Role}
	if err := c.sessions.Set(Session{Token: resp.Token, Identity: id}); err != nil {
		return id, fmt.Errorf("signed in but failed to store session: %w", err)
	}
	return id, nil
}

// Logout forgets the session locally; tokens are not revoked server side.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// Me asks the server who the current token belongs to
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var user dto.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return Identity{}, err
	}
	return Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

// --- Profile ---

// Profile returns the caller's student profile
func (c *Client) Profile(ctx context.Context) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := c.doJSON(ctx, http.MethodGet, "/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile replaces every editable profile field
func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := c.doJSON(ctx, http.MethodPut, "/profile", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UploadResume uploads a resume file and returns the updated profile
func (c *Client) UploadResume(ctx context.Context, fileName string, content io.Reader) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := c.doMultipart(ctx, "/profile/resume", fileName, content, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Drives ---

// Drives lists the drives visible to the caller, optionally narrowed by a server-side search
func (c *Client) Drives(ctx context.Context, query string) ([]dto.DriveResponse, error) {
	path := "/drives"
	if q := strings.TrimSpace(query); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	var drives []dto.DriveResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &drives); err != nil {
		return nil, err
	}
	return drives, nil
}

// Drive fetches one drive
func (c *Client) Drive(ctx context.Context, id int64) (*dto.DriveResponse, error) {
	var d dto.DriveResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/drives/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDrive creates a drive (admin)
func (c *Client) CreateDrive(ctx context.Context, req dto.CreateDriveRequest) (*dto.DriveResponse, error) {
	var d dto.DriveResponse
	if err := c.doJSON(ctx, http.MethodPost, "/drives", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDrive changes the non-nil fields of a drive (admin)
func (c *Client) UpdateDrive(ctx context.Context, id int64, req dto.UpdateDriveRequest) (*dto.DriveResponse, error) {
	var d dto.DriveResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/drives/%d", id), req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDrive removes a drive and its applications (admin)
func (c *Client) DeleteDrive(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/drives/%d", id), nil, nil)
}

// --- Applications ---

// Applications lists the caller's applications, or every application for admins
func (c *Client) Applications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.doJSON(ctx, http.MethodGet, "/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// DriveApplications lists the applicants of one drive (admin)
func (c *Client) DriveApplications(ctx context.Context, driveID int64) ([]models.Application, error) {
	var apps []models.Application
	if err := c.doJSON(ctx, http.MethodGet, idPath("/applications/drive/%d", driveID), nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Apply files an application for the signed-in student. Applying twice is KindConflict.
func (c *Client) Apply(ctx context.Context, driveID int64) (*models.Application, error) {
	var app models.Application
	if err := c.doJSON(ctx, http.MethodPost, "/applications", dto.CreateApplicationRequest{DriveID: driveID}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateStatus moves an application to status (admin) and returns the stored result
func (c *Client) UpdateStatus(ctx context.Context, applicationID int64, status models.ApplicationStatus) (*models.Application, error) {
	var app models.Application
	err := c.doJSON(ctx, http.MethodPut, idPath("/applications/%d/status", applicationID), dto.UpdateStatusRequest{Status: status}, &app)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Withdraw deletes one of the caller's applications while it is still "applied"
func (c *Client) Withdraw(ctx context.Context, applicationID int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/applications/%d", applicationID), nil, nil)
}

// UploadStatuses hands a CSV to the server-side importer of a drive (admin)
func (c *Client) UploadStatuses(ctx context.Context, driveID int64, fileName string, contents []byte) (*dto.ImportResponse, error) {
	var resp dto.ImportResponse
	if err := c.doMultipart(ctx, idPath("/applications/drive/%d/import", driveID), fileName, bytes.NewReader(contents), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Notifications ---

// Notifications returns the caller's newest notifications, newest first
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var list []models.Notification
	if err := c.doJSON(ctx, http.MethodGet, "/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkRead marks one notification read
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/notifications/%d/read", id), nil, nil)
}

// MarkAllRead marks every notification of the caller read and returns how many changed
func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	var resp struct {
		Updated int64 `json:"updated"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/notifications/read-all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// UnreadCount counts notifications not yet read
func UnreadCount(list []models.Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}

// --- Analytics and export ---

// Analytics returns the admin dashboard aggregates
func (c *Client) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	var a dto.AnalyticsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/analytics", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ExportApplications copies a drive's applicant CSV into w and returns the
// file name the server suggested.
func (c *Client) ExportApplications(ctx context.Context, driveID int64, w io.Writer) (string, error) {
	path := idPath("/export/applications/%d", driveID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", newAPIError(resp.StatusCode, body)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	fileName := "applications_" + strconv.FormatInt(driveID, 10) + ".csv"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		fileName = params["filename"]
	}
	return fileName, nil
}

// --- Dashboard ---

// Dashboard is what a student or admin sees on the landing screen
type Dashboard struct {
	Drives       []dto.DriveResponse
	Applications []models.Application
}

// Dashboard fetches drives and applications concurrently; either failure fails the whole call.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		drives, err := c.Drives(gctx, "")
		if err != nil {
			return fmt.Errorf("failed to load drives: %w", err)
		}
		d.Drives = drives
		return nil
	})
	g.Go(func() error {
		apps, err := c.Applications(gctx)
		if err != nil {
			return fmt.Errorf("failed to load applications: %w", err)
		}
		d.Applications = apps
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
