package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "placement.test",
	})
}

func protectedRouter(jwt *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	r.GET("/who", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "role": role}})
	})
	return r
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := protectedRouter(newJWT(), models.RoleStudent)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "AUTH_008", body.Error.Code)
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	r := protectedRouter(newJWT(), models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Email: "alice@college.edu", RoleType: models.RoleStudent})
	require.NoError(t, err)

	r := protectedRouter(jwt, models.RoleStudent, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"id":7,"role":"student"}}`, w.Body.String())
}

func TestRoleRequiredForbidsOtherRoles(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Email: "alice@college.edu", RoleType: models.RoleStudent})
	require.NoError(t, err)

	r := protectedRouter(jwt, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperrors.ErrDriveNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrApplicationNotFound), http.StatusNotFound},
		{apperrors.ErrAlreadyApplied, http.StatusConflict},
		{apperrors.ErrWithdrawNotAllowed, http.StatusConflict},
		{apperrors.NewConflictError("drive is closed"), http.StatusConflict},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict},
		{apperrors.ErrPermissionDenied, http.StatusForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.NewBadRequestError("no fields to update"), http.StatusBadRequest},
		{statusimport.ErrEmptyFile, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, detail := ErrorDetailFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.NotEmpty(t, detail.Message)
	}
}

func TestErrorDetailForKeepsCustomMessage(t *testing.T) {
	_, detail := ErrorDetailFor(apperrors.NewConflictError("drive is closed"))
	assert.Equal(t, "drive is closed", detail.Message)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc123", w.Header().Get(RequestIDHeader))
}

func TestSetupValidatorUsesJSONNames(t *testing.T) {
	require.NoError(t, SetupValidator())

	type payload struct {
		DriveID int64  `json:"drive_id" binding:"required"`
		Status  string `json:"status" binding:"required,appstatus"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error()))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"drive_id":1,"status":"hired"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"drive_id":1,"status":"selected"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
