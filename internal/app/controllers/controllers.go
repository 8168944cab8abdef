// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

// The interfaces below are what each controller needs from the service layer.

// AuthService registers, logs in and identifies users
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// ProfileService manages the caller's student profile
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*models.StudentProfile, error)
	Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.StudentProfile, error)
	UploadResume(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.StudentProfile, error)
}

// DriveService manages placement drives
type DriveService interface {
	List(ctx context.Context, caller services.Caller, query string) ([]*models.Drive, error)
	Get(ctx context.Context, id int64) (*models.Drive, error)
	Create(ctx context.Context, caller services.Caller, req *dto.CreateDriveRequest) (*models.Drive, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDriveRequest) (*models.Drive, error)
	Delete(ctx context.Context, id int64) error
}

// ApplicationService manages applications and their status
type ApplicationService interface {
	Apply(ctx context.Context, caller services.Caller, driveID int64) (*models.Application, error)
	List(ctx context.Context, caller services.Caller) ([]*models.Application, error)
	ListByDrive(ctx context.Context, driveID int64) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	Withdraw(ctx context.Context, caller services.Caller, id int64) error
}

// ImportService applies a status CSV to one drive
type ImportService interface {
	Import(ctx context.Context, driveID int64, fileName, contents string) (statusimport.Report, error)
}

// ExportService renders one drive's applicants as CSV
type ExportService interface {
	WriteCSV(ctx context.Context, driveID int64, w io.Writer) error
}

// NotificationService reads and acknowledges the caller's notifications
type NotificationService interface {
	List(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// AnalyticsService computes the admin dashboard
type AnalyticsService interface {
	Snapshot(ctx context.Context) (*models.Analytics, error)
}

// callerFrom builds the service caller from the JWT claims stored by middleware.JWTAuth
func callerFrom(ctx *gin.Context) (services.Caller, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return services.Caller{}, false
	}
	role, ok := middleware.CurrentRole(ctx)
	if !ok {
		return services.Caller{}, false
	}
	return services.Caller{UserID: userID, Role: role}, true
}

// requireCaller aborts with 401 when the request carries no identity
func requireCaller(ctx *gin.Context) (services.Caller, bool) {
	caller, ok := callerFrom(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return caller, ok
}

// parseIDParam reads a positive int64 path parameter, answering 400 when it is malformed
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// badRequest answers a binding failure
func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewAPIResponse(data))
}
