package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/controllers"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/middleware"
)

// Controllers groups every handler the API exposes
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Drive        *controllers.DriveController
	Application  *controllers.ApplicationController
	Notification *controllers.NotificationController
	Analytics    *controllers.AnalyticsController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)

	authenticated.GET("/auth/me", c.Auth.Me)

	profile := authenticated.Group("/profile", studentOnly)
	{
		profile.GET("", c.Profile.GetProfile)
		profile.PUT("", c.Profile.UpdateProfile)
		profile.POST("/resume", c.Profile.UploadResume)
	}

	drives := authenticated.Group("/drives")
	{
		drives.GET("", c.Drive.ListDrives)
		drives.GET("/:id", c.Drive.GetDrive)
		drives.POST("", adminOnly, c.Drive.CreateDrive)
		drives.PUT("/:id", adminOnly, c.Drive.UpdateDrive)
		drives.DELETE("/:id", adminOnly, c.Drive.DeleteDrive)
	}

	applications := authenticated.Group("/applications")
	{
		applications.GET("", c.Application.ListApplications)
		applications.POST("", studentOnly, c.Application.Apply)
		applications.GET("/drive/:id", adminOnly, c.Application.ListDriveApplications)
		applications.POST("/drive/:id/import", adminOnly, c.Application.ImportStatuses)
		applications.PUT("/:id/status", adminOnly, c.Application.UpdateStatus)
		applications.DELETE("/:id", studentOnly, c.Application.Withdraw)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", c.Notification.ListNotifications)
		notifications.PUT("/read-all", c.Notification.MarkAllRead)
		notifications.PUT("/:id/read", c.Notification.MarkRead)
	}

	authenticated.GET("/analytics", adminOnly, c.Analytics.GetAnalytics)
	authenticated.GET("/export/applications/:driveId", adminOnly, c.Analytics.ExportApplications)
}
