package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/helpers"
	"github.com/yigit/placement/internal/pkg/metrics"
	"github.com/yigit/placement/internal/pkg/search"
)

// searchLimit caps the number of hits taken from the search index
const searchLimit = 200

// NewDriveMessage is the notification sent to eligible students when a drive opens
func NewDriveMessage(d *models.Drive) string {
	return fmt.Sprintf("New placement drive: %s - %s", d.CompanyName, d.JobRole)
}

// DriveService handles placement drives
type DriveService struct {
	driveRepo        DriveStore
	profileRepo      ProfileStore
	notificationRepo NotificationStore
	index            search.DriveIndex
	logger           zerolog.Logger
}

// NewDriveService creates a new DriveService
func NewDriveService(
	driveRepo DriveStore,
	profileRepo ProfileStore,
	notificationRepo NotificationStore,
	index search.DriveIndex,
	logger zerolog.Logger,
) *DriveService {
	if index == nil {
		index = search.NoopIndex{}
	}
	return &DriveService{
		driveRepo:        driveRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		index:            index,
		logger:           logger,
	}
}

// List returns the drives visible to the caller.
// Students with a profile only see drives they are eligible for.
func (s *DriveService) List(ctx context.Context, caller Caller, query string) ([]*models.Drive, error) {
	drives, err := s.search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin() {
		return drives, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return drives, nil
		}
		return nil, err
	}

	eligible := make([]*models.Drive, 0, len(drives))
	for _, d := range drives {
		if d.Eligibility.IsEligible(profile) {
			eligible = append(eligible, d)
		}
	}
	return eligible, nil
}

// search resolves q through the index, falling back to a substring match on
// company name and job role in memory
func (s *DriveService) search(ctx context.Context, q string) ([]*models.Drive, error) {
	if q == "" {
		return s.driveRepo.List(ctx, repositories.DriveFilter{})
	}

	ids, err := s.index.Search(ctx, q, searchLimit)
	if err == nil {
		drives, err := s.driveRepo.List(ctx, repositories.DriveFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		return orderByIDs(drives, ids), nil
	}
	if !errors.Is(err, search.ErrDisabled) {
		s.logger.Warn().Err(err).Str("query", q).Msg("Drive index search failed, using database scan")
	}

	all, err := s.driveRepo.List(ctx, repositories.DriveFilter{})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	matched := make([]*models.Drive, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.CompanyName), needle) ||
			strings.Contains(strings.ToLower(d.JobRole), needle) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func orderByIDs(drives []*models.Drive, ids []int64) []*models.Drive {
	byID := make(map[int64]*models.Drive, len(drives))
	for _, d := range drives {
		byID[d.ID] = d
	}
	out := make([]*models.Drive, 0, len(drives))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Get returns one drive
func (s *DriveService) Get(ctx context.Context, id int64) (*models.Drive, error) {
	return s.driveRepo.GetByID(ctx, id)
}

// Create stores a drive and notifies every eligible student
func (s *DriveService) Create(ctx context.Context, caller Caller, req *dto.CreateDriveRequest) (*models.Drive, error) {
	deadline, err := helpers.ParseDate(req.Deadline)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	drive := &models.Drive{
		CompanyName:    strings.TrimSpace(req.CompanyName),
		CompanyDomain:  strings.TrimSpace(req.CompanyDomain),
		JobRole:        strings.TrimSpace(req.JobRole),
		Package:        strings.TrimSpace(req.Package),
		PackageLPA:     req.PackageLPA,
		Location:       strings.TrimSpace(req.Location),
		JobDescription: req.JobDescription,
		Deadline:       deadline,
		Status:         req.Status,
		Eligibility:    req.Eligibility.ToModel(),
		CreatedBy:      caller.UserID,
	}
	if drive.Status == "" {
		drive.Status = models.DriveStatusActive
	}
	if err := validateDrive(drive); err != nil {
		return nil, err
	}

	if err := s.driveRepo.Create(ctx, drive); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("driveID", drive.ID).Str("company", drive.CompanyName).Msg("Drive created")

	s.reindex(ctx, drive)
	s.notifyEligible(ctx, drive)
	return drive, nil
}

// Update applies a partial update
func (s *DriveService) Update(ctx context.Context, id int64, req *dto.UpdateDriveRequest) (*models.Drive, error) {
	if req.IsEmpty() {
		return nil, apperrors.NewBadRequestError("no updates provided")
	}

	drive, err := s.driveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		drive.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.CompanyDomain != nil {
		drive.CompanyDomain = strings.TrimSpace(*req.CompanyDomain)
	}
	if req.JobRole != nil {
		drive.JobRole = strings.TrimSpace(*req.JobRole)
	}
	if req.Package != nil {
		drive.Package = strings.TrimSpace(*req.Package)
	}
	if req.PackageLPA != nil {
		drive.PackageLPA = req.PackageLPA
	}
	if req.Location != nil {
		drive.Location = strings.TrimSpace(*req.Location)
	}
	if req.JobDescription != nil {
		drive.JobDescription = *req.JobDescription
	}
	if req.Deadline != nil {
		deadline, err := helpers.ParseDate(*req.Deadline)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		drive.Deadline = deadline
	}
	if req.Status != nil {
		drive.Status = *req.Status
	}
	if req.Eligibility != nil {
		drive.Eligibility = req.Eligibility.ToModel()
	}

	if err := validateDrive(drive); err != nil {
		return nil, err
	}
	if err := s.driveRepo.Update(ctx, drive); err != nil {
		return nil, err
	}

	s.reindex(ctx, drive)
	return drive, nil
}

// Delete removes a drive together with its applications
func (s *DriveService) Delete(ctx context.Context, id int64) error {
	removed, err := s.driveRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("driveID", id).Int64("applicationsRemoved", removed).Msg("Drive deleted")

	if err := s.index.DeleteDrive(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("driveID", id).Msg("Failed to remove drive from search index")
	}
	return nil
}

// SyncIndex creates the search index if needed and indexes every stored drive.
// It returns the number of drives indexed.
func (s *DriveService) SyncIndex(ctx context.Context) (int, error) {
	if err := s.index.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("failed to prepare drive index: %w", err)
	}
	drives, err := s.driveRepo.List(ctx, repositories.DriveFilter{})
	if err != nil {
		return 0, err
	}
	for i, d := range drives {
		if err := s.index.IndexDrive(ctx, d); err != nil {
			return i, fmt.Errorf("failed to index drive %d: %w", d.ID, err)
		}
	}
	return len(drives), nil
}

func (s *DriveService) reindex(ctx context.Context, d *models.Drive) {
	if err := s.index.IndexDrive(ctx, d); err != nil {
		s.logger.Warn().Err(err).Int64("driveID", d.ID).Msg("Failed to index drive")
	}
}

// notifyEligible is best effort: the drive exists even if notifications fail
func (s *DriveService) notifyEligible(ctx context.Context, d *models.Drive) {
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("driveID", d.ID).Msg("Failed to load profiles for drive notification")
		return
	}

	var userIDs []int64
	for _, p := range profiles {
		if d.Eligibility.IsEligible(p) {
			userIDs = append(userIDs, p.UserID)
		}
	}

	n, err := s.notificationRepo.CreateMany(ctx, userIDs, NewDriveMessage(d))
	if err != nil {
		s.logger.Error().Err(err).Int64("driveID", d.ID).Msg("Failed to notify eligible students")
		return
	}
	metrics.NotificationsCreated.Add(float64(n))
	s.logger.Debug().Int64("driveID", d.ID).Int64("notified", n).Msg("Eligible students notified")
}

func validateDrive(d *models.Drive) error {
	if d.CompanyName == "" || d.JobRole == "" {
		return apperrors.NewBadRequestError("company name and job role are required")
	}
	if !d.Status.IsValid() {
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown drive status %q", d.Status))
	}
	if d.PackageLPA != nil && *d.PackageLPA < 0 {
		return apperrors.NewBadRequestError("package_lpa cannot be negative")
	}
	if d.Eligibility.MinCGPA < 0 || d.Eligibility.MinCGPA > 10 {
		return apperrors.NewBadRequestError("min_cgpa must be between 0 and 10")
	}
	d.Eligibility.Normalize()
	return nil
}
