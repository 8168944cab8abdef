package dto

import "github.com/yigit/placement/internal/app/models"

// AnalyticsResponse holds the admin dashboard aggregates
type AnalyticsResponse struct {
	TotalDrives       int64            `json:"total_drives" example:"12"`
	ActiveDrives      int64            `json:"active_drives" example:"8"`
	TotalApplications int64            `json:"total_applications" example:"240"`
	TotalStudents     int64            `json:"total_students" example:"150"`
	DepartmentStats   map[string]int64 `json:"department_stats"`
	StatusStats       map[string]int64 `json:"status_stats"`
}

// FromAnalytics converts the aggregate model into its response form
func FromAnalytics(a *models.Analytics) AnalyticsResponse {
	resp := AnalyticsResponse{
		TotalDrives:       a.TotalDrives,
		ActiveDrives:      a.ActiveDrives,
		TotalApplications: a.TotalApplications,
		TotalStudents:     a.TotalStudents,
		DepartmentStats:   a.DepartmentStats,
		StatusStats:       a.StatusStats,
	}
	if resp.DepartmentStats == nil {
		resp.DepartmentStats = map[string]int64{}
	}
	if resp.StatusStats == nil {
		resp.StatusStats = map[string]int64{}
	}
	return resp
}
