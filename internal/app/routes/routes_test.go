package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/controllers"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	nop := zerolog.Nop()

	// Services are nil: these tests only reach the middleware chain.
	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:         controllers.NewAuthController(nil, nop),
		Profile:      controllers.NewProfileController(nil, nop),
		Drive:        controllers.NewDriveController(nil, nop),
		Application:  controllers.NewApplicationController(nil, nil, nop),
		Notification: controllers.NewNotificationController(nil),
		Analytics:    controllers.NewAnalyticsController(nil, nil),
	}, middleware.NewAuthMiddleware(jwt))
	return router, jwt
}

func tokenFor(t *testing.T, jwt *auth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := jwt.GenerateToken(&models.User{ID: 1, Email: "user@college.edu", RoleType: role})
	require.NoError(t, err)
	return token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/drives", "/api/v1/applications", "/api/v1/notifications", "/api/v1/auth/me"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRoleRestrictions(t *testing.T) {
	router, jwt := newTestRouter(t)
	student := tokenFor(t, jwt, models.RoleStudent)
	admin := tokenFor(t, jwt, models.RoleAdmin)

	tests := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodPost, "/api/v1/drives", student},
		{http.MethodPut, "/api/v1/drives/1", student},
		{http.MethodDelete, "/api/v1/drives/1", student},
		{http.MethodGet, "/api/v1/applications/drive/1", student},
		{http.MethodPost, "/api/v1/applications/drive/1/import", student},
		{http.MethodPut, "/api/v1/applications/1/status", student},
		{http.MethodGet, "/api/v1/analytics", student},
		{http.MethodGet, "/api/v1/export/applications/1", student},
		{http.MethodGet, "/api/v1/profile", admin},
		{http.MethodPost, "/api/v1/applications", admin},
		{http.MethodDelete, "/api/v1/applications/1", admin},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+tt.token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tt.method, tt.path)
	}
}
