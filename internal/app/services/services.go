package services

import (
	"context"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
)

// Services defined in this package:
// - AuthService: registration, login and identity lookup
// - ProfileService: student profile and resume
// - DriveService: placement drives, eligibility and search
// - ApplicationService: applications and the status workflow
// - ImportService: bulk CSV status import
// - ExportService: CSV export of a drive's applicants
// - NotificationService: per-user notification feed
// - AnalyticsService: admin dashboard aggregates

// UserStore is the persistence surface AuthService needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ProfileStore is the persistence surface for student profiles
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	ListAll(ctx context.Context) ([]*models.StudentProfile, error)
	Replace(ctx context.Context, profile *models.StudentProfile) error
	UpdateResumeURL(ctx context.Context, userID int64, url string) error
}

// DriveStore is the persistence surface for drives
type DriveStore interface {
	Create(ctx context.Context, d *models.Drive) error
	GetByID(ctx context.Context, id int64) (*models.Drive, error)
	List(ctx context.Context, filter repositories.DriveFilter) ([]*models.Drive, error)
	Update(ctx context.Context, d *models.Drive) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// ApplicationStore is the persistence surface for applications
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	Delete(ctx context.Context, id int64) error
}

// NotificationStore is the persistence surface for notifications
type NotificationStore interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	Create(ctx context.Context, userID int64, message string) error
	CreateMany(ctx context.Context, userIDs []int64, message string) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// AnalyticsStore computes dashboard aggregates
type AnalyticsStore interface {
	Snapshot(ctx context.Context) (*models.Analytics, error)
}

// Caller identifies the authenticated user a service call acts for
type Caller struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
