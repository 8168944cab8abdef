package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/middleware"
)

// maxImportSize bounds the CSV accepted by the import endpoint
const maxImportSize = 2 << 20

// ApplicationController handles application endpoints, including bulk status import
type ApplicationController struct {
	applicationService ApplicationService
	importService      ImportService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService ApplicationService, importService ImportService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		importService:      importService,
		logger:             logger,
	}
}

// ListApplications lists the caller's applications, or every application for admins
// @Summary List applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Application}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	apps, err := c.applicationService.List(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, apps)
}

// ListDriveApplications lists the applicants of one drive
// @Summary List applications of a drive
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Application}
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /applications/drive/{id} [get]
func (c *ApplicationController) ListDriveApplications(ctx *gin.Context) {
	driveID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	apps, err := c.applicationService.ListByDrive(ctx.Request.Context(), driveID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, apps)
}

// Apply creates an application for the calling student
// @Summary Apply to a drive
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Drive to apply to"
// @Success 201 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Drive or profile not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied or drive closed"
// @Router /applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	app, err := c.applicationService.Apply(ctx.Request.Context(), caller, req.DriveID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, app)
}

// UpdateStatus changes an application's status and notifies the student
// @Summary Update application status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /applications/{id}/status [put]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	app, err := c.applicationService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, app)
}

// Withdraw deletes the caller's own application while it is still applied
// @Summary Withdraw application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application is past the applied stage"
// @Router /applications/{id} [delete]
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.Withdraw(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Application withdrawn"})
}

// ImportStatuses applies a CSV of email,status rows to a drive's applications
// @Summary Bulk status import
// @Description Rows are applied in file order. Unknown statuses fall back to shortlisted.
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResponse}
// @Failure 400 {object} dto.ErrorResponse "Not a CSV file or no data rows"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /applications/drive/{id}/import [post]
func (c *ApplicationController) ImportStatuses(ctx *gin.Context) {
	driveID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").
			WithField("file").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if fh.Size > maxImportSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "CSV file is too large").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	report, err := c.importService.Import(ctx.Request.Context(), driveID, fh.Filename, string(contents))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("driveID", driveID).
		Int("updated", report.SuccessCount).
		Int("failed", report.FailCount).
		Msg("Status import applied")
	respond(ctx, http.StatusOK, dto.FromReport(report))
}
