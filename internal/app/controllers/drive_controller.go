package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/middleware"
)

// DriveController handles placement drive endpoints
type DriveController struct {
	driveService DriveService
	logger       zerolog.Logger
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService DriveService, logger zerolog.Logger) *DriveController {
	return &DriveController{
		driveService: driveService,
		logger:       logger,
	}
}

// ListDrives lists drives visible to the caller
// @Summary List drives
// @Description Admins see every drive. Students see the drives they are eligible for once their profile exists.
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search company name or job role"
// @Success 200 {object} dto.APIResponse{data=[]dto.DriveResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /drives [get]
func (c *DriveController) ListDrives(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	drives, err := c.driveService.List(ctx.Request.Context(), caller, strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.FromDrives(drives))
}

// GetDrive returns one drive
// @Summary Get drive
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse}
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id} [get]
func (c *DriveController) GetDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	drive, err := c.driveService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.FromDrive(drive))
}

// CreateDrive creates a drive and notifies eligible students
// @Summary Create drive
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDriveRequest true "Drive"
// @Success 201 {object} dto.APIResponse{data=dto.DriveResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /drives [post]
func (c *DriveController) CreateDrive(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	drive, err := c.driveService.Create(ctx.Request.Context(), caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("driveID", drive.ID).Str("company", drive.CompanyName).Msg("Drive created")
	respond(ctx, http.StatusCreated, dto.FromDrive(drive))
}

// UpdateDrive applies a partial update
// @Summary Update drive
// @Description Only the fields present in the body are changed
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Param request body dto.UpdateDriveRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id} [put]
func (c *DriveController) UpdateDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	drive, err := c.driveService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.FromDrive(drive))
}

// DeleteDrive removes a drive together with its applications
// @Summary Delete drive
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id} [delete]
func (c *DriveController) DeleteDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.driveService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("driveID", id).Msg("Drive deleted")
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Drive deleted"})
}
