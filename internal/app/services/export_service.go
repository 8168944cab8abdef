package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/placement/internal/app/repositories"
)

// ExportHeader is the column layout of an applicant export. Email and status
// lead so the file can be fed straight back into the status importer.
var ExportHeader = []string{
	"email", "status", "student_name", "student_department",
	"student_cgpa", "student_skills", "applied_at",
}

// ExportService renders a drive's applicants as CSV
type ExportService struct {
	apps *ApplicationService
}

// NewExportService creates a new ExportService
func NewExportService(apps *ApplicationService) *ExportService {
	return &ExportService{apps: apps}
}

// ExportFileName is the attachment name offered for a drive export
func ExportFileName(driveID int64) string {
	return fmt.Sprintf("applications_%d.csv", driveID)
}

// WriteCSV writes the applicants of driveID to w
func (s *ExportService) WriteCSV(ctx context.Context, driveID int64, w io.Writer) error {
	if _, err := s.apps.driveRepo.GetByID(ctx, driveID); err != nil {
		return err
	}
	apps, err := s.apps.appRepo.List(ctx, repositories.ApplicationFilter{DriveID: &driveID})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, a := range apps {
		record := []string{
			a.StudentEmail,
			string(a.Status),
			a.StudentName,
			a.StudentDepartment,
			strconv.FormatFloat(a.StudentCGPA, 'f', -1, 64),
			strings.Join(a.StudentSkills, ", "),
			a.AppliedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
