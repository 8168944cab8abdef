package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/filestorage"
)

// ProfileService manages student profiles
type ProfileService struct {
	profileRepo ProfileStore
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo ProfileStore, storage filestorage.FileStorage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Update replaces the profile with the request. Identity and resume survive.
func (s *ProfileService) Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, err
		}
		profile = &models.StudentProfile{UserID: userID}
	}

	req.ApplyTo(profile)
	if err := s.profileRepo.Replace(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UploadResume stores a new resume and links it to the profile.
// The previous file is removed once the new link is saved.
func (s *ProfileService) UploadResume(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.StudentProfile, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("resume file is required")
	}
	if err := filestorage.CheckResume(file); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("resumes/%d", userID))
	if err != nil {
		return nil, fmt.Errorf("error storing resume: %w", err)
	}

	if err := s.profileRepo.UpdateResumeURL(ctx, userID, url); err != nil {
		_ = s.storage.DeleteFile(url)
		return nil, err
	}

	if profile.ResumeURL != nil && *profile.ResumeURL != "" {
		if err := s.storage.DeleteFile(*profile.ResumeURL); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to remove previous resume")
		}
	}

	profile.ResumeURL = &url
	return profile, nil
}
