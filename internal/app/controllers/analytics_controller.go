package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/middleware"
)

// AnalyticsController serves the admin dashboard aggregates and CSV exports
type AnalyticsController struct {
	analyticsService AnalyticsService
	exportService    ExportService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService AnalyticsService, exportService ExportService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetAnalytics returns placement totals and breakdowns
// @Summary Placement analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	snapshot, err := c.analyticsService.Snapshot(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.FromAnalytics(snapshot))
}

// ExportApplications streams a drive's applicants as CSV
// @Summary Export applications
// @Description The first two columns are email and status so the file can be re-imported unchanged
// @Tags analytics
// @Produce text/csv
// @Security BearerAuth
// @Param driveId path int true "Drive ID"
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /export/applications/{driveId} [get]
func (c *AnalyticsController) ExportApplications(ctx *gin.Context) {
	driveID, ok := parseIDParam(ctx, "driveId")
	if !ok {
		return
	}

	// Rendered into memory first so a failure can still answer with JSON
	var buf bytes.Buffer
	if err := c.exportService.WriteCSV(ctx.Request.Context(), driveID, &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+services.ExportFileName(driveID))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
