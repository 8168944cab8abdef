package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

// HandleAPIError maps a service error onto a status code and the standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("requestID", c.GetString(RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor resolves the HTTP status and error detail for err
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	message := err.Error()
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		message = customErr.Error()
	}

	switch {
	// Not found
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrDriveNotFound,
		apperrors.ErrApplicationNotFound,
		apperrors.ErrProfileNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrNotificationMissing):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)

	// Conflicts
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message)
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrAlreadyApplied,
		apperrors.ErrWithdrawNotAllowed,
		apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message)

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")

	// Bad input
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		statusimport.ErrNotCSV,
		statusimport.ErrEmptyFile):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	case apperrors.Is(err, apperrors.ErrBadRequest,
		filestorage.ErrUnsupportedType,
		filestorage.ErrFileTooLarge):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message)
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An unexpected error occurred").
		WithSeverity(dto.ErrorSeverityCritical)
}
