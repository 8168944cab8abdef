package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/metrics"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

// ImportService runs bulk CSV status imports against the application service
type ImportService struct {
	apps   *ApplicationService
	logger zerolog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(apps *ApplicationService, logger zerolog.Logger) *ImportService {
	return &ImportService{apps: apps, logger: logger}
}

// applicationLedger adapts ApplicationService to statusimport.Ledger for one drive
type applicationLedger struct {
	apps    *ApplicationService
	driveID int64
}

func (l applicationLedger) ListApplications(ctx context.Context) ([]statusimport.Entry, error) {
	list, err := l.apps.appRepo.List(ctx, repositories.ApplicationFilter{DriveID: &l.driveID})
	if err != nil {
		return nil, err
	}
	entries := make([]statusimport.Entry, 0, len(list))
	for _, a := range list {
		entries = append(entries, statusimport.Entry{
			ApplicationID: a.ID,
			DriveID:       a.DriveID,
			StudentEmail:  a.StudentEmail,
		})
	}
	return entries, nil
}

func (l applicationLedger) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	_, err := l.apps.UpdateStatus(ctx, id, status)
	return err
}

// Import validates and parses the uploaded file, then applies it row by row
func (s *ImportService) Import(ctx context.Context, driveID int64, fileName, contents string) (statusimport.Report, error) {
	if err := statusimport.ValidateFileName(fileName); err != nil {
		return statusimport.Report{}, err
	}
	rows, err := statusimport.Parse(strings.TrimPrefix(contents, "\ufeff"))
	if err != nil {
		return statusimport.Report{}, err
	}
	if _, err := s.apps.driveRepo.GetByID(ctx, driveID); err != nil {
		return statusimport.Report{}, err
	}

	logger := s.logger.With().Int64("driveID", driveID).Str("file", fileName).Logger()
	report, err := statusimport.NewImporter(applicationLedger{apps: s.apps, driveID: driveID}, logger).Run(ctx, driveID, rows)

	metrics.ImportRows.WithLabelValues("success").Add(float64(report.SuccessCount))
	metrics.ImportRows.WithLabelValues("failed").Add(float64(report.FailCount))
	metrics.ImportRows.WithLabelValues("coerced").Add(float64(report.Coerced))
	return report, err
}
