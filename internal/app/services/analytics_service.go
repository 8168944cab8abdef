package services

import (
	"context"

	"github.com/yigit/placement/internal/app/models"
)

// AnalyticsService computes the admin dashboard aggregates
type AnalyticsService struct {
	analyticsRepo AnalyticsStore
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Snapshot returns the current totals and distributions.
// Every known status is present in StatusStats, zero when unused.
func (s *AnalyticsService) Snapshot(ctx context.Context) (*models.Analytics, error) {
	a, err := s.analyticsRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if a.StatusStats == nil {
		a.StatusStats = map[string]int64{}
	}
	for _, st := range models.AllStatuses {
		if _, ok := a.StatusStats[string(st)]; !ok {
			a.StatusStats[string(st)] = 0
		}
	}
	return a, nil
}
