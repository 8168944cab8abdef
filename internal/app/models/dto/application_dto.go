package dto

import (
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

// CreateApplicationRequest applies the caller to a drive
type CreateApplicationRequest struct {
	DriveID int64 `json:"drive_id" binding:"required,min=1" example:"1"`
}

// UpdateStatusRequest changes the status of an application
type UpdateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,appstatus" example:"shortlisted"`
}

// ImportResponse reports the outcome of a bulk status import
type ImportResponse struct {
	SuccessCount int                              `json:"success_count"`
	FailCount    int                              `json:"fail_count"`
	Coerced      int                              `json:"coerced"`
	PerStatus    map[models.ApplicationStatus]int `json:"per_status"`
	Summary      string                           `json:"summary"`
}

// FromReport converts an import report into its response form
func FromReport(r statusimport.Report) ImportResponse {
	perStatus := r.PerStatus
	if perStatus == nil {
		perStatus = map[models.ApplicationStatus]int{}
	}
	return ImportResponse{
		SuccessCount: r.SuccessCount,
		FailCount:    r.FailCount,
		Coerced:      r.Coerced,
		PerStatus:    perStatus,
		Summary:      r.Summary(),
	}
}
