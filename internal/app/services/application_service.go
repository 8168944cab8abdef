package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/metrics"
)

// StatusMessage is the notification sent to a student when their status changes
func StatusMessage(a *models.Application) string {
	return fmt.Sprintf("Application status updated: %s - %s", a.CompanyName, a.Status)
}

// ApplicationService handles applications and their status workflow
type ApplicationService struct {
	appRepo          ApplicationStore
	driveRepo        DriveStore
	profileRepo      ProfileStore
	notificationRepo NotificationStore
	policy           models.TransitionPolicy
	logger           zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	appRepo ApplicationStore,
	driveRepo DriveStore,
	profileRepo ProfileStore,
	notificationRepo NotificationStore,
	policy models.TransitionPolicy,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:          appRepo,
		driveRepo:        driveRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		policy:           policy,
		logger:           logger,
	}
}

// Apply files an application for the calling student, snapshotting their profile
func (s *ApplicationService) Apply(ctx context.Context, caller Caller, driveID int64) (*models.Application, error) {
	drive, err := s.driveRepo.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive.Status != models.DriveStatusActive {
		return nil, apperrors.NewConflictError("drive is closed")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		DriveID:           drive.ID,
		StudentID:         caller.UserID,
		Status:            models.StatusApplied,
		StudentName:       profile.Name,
		StudentEmail:      profile.Email,
		StudentDepartment: profile.Department,
		StudentCGPA:       profile.CGPA,
		StudentSkills:     append([]string{}, profile.Skills...),
		CompanyName:       drive.CompanyName,
		JobRole:           drive.JobRole,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	metrics.ApplicationsCreated.Inc()
	s.logger.Info().Int64("applicationID", app.ID).Int64("driveID", driveID).Int64("studentID", caller.UserID).Msg("Application submitted")
	return app, nil
}

// List returns the caller's applications, or every application for admins
func (s *ApplicationService) List(ctx context.Context, caller Caller) ([]*models.Application, error) {
	var filter repositories.ApplicationFilter
	if !caller.IsAdmin() {
		filter.StudentID = &caller.UserID
	}
	return s.appRepo.List(ctx, filter)
}

// ListByDrive returns the applicants of a drive
func (s *ApplicationService) ListByDrive(ctx context.Context, driveID int64) ([]*models.Application, error) {
	if _, err := s.driveRepo.GetByID(ctx, driveID); err != nil {
		return nil, err
	}
	return s.appRepo.List(ctx, repositories.ApplicationFilter{DriveID: &driveID})
}

// UpdateStatus moves an application to a new status under the configured policy
// and notifies the student.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, status)
	}

	current, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.Status, status, s.policy) {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.appRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.StatusUpdates.WithLabelValues(string(status)).Inc()

	if err := s.notificationRepo.Create(ctx, updated.StudentID, StatusMessage(updated)); err != nil {
		s.logger.Error().Err(err).Int64("applicationID", id).Msg("Failed to notify student of status change")
	} else {
		metrics.NotificationsCreated.Inc()
	}

	s.logger.Info().Int64("applicationID", id).Str("from", string(current.Status)).Str("to", string(status)).Msg("Application status updated")
	return updated, nil
}

// Withdraw deletes the caller's own application while it is still applied
func (s *ApplicationService) Withdraw(ctx context.Context, caller Caller, id int64) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// someone else's application looks the same as a missing one
	if app.StudentID != caller.UserID {
		return apperrors.ErrApplicationNotFound
	}
	if !app.CanWithdraw() {
		return apperrors.ErrWithdrawNotAllowed
	}

	if err := s.appRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("applicationID", id).Int64("studentID", caller.UserID).Msg("Application withdrawn")
	return nil
}
