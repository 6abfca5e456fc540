package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursereview/internal/app/models/dto"
	"github.com/yigit/coursereview/internal/pkg/apperrors"
	"github.com/yigit/coursereview/internal/pkg/logger"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError maps an application error to an HTTP status and an ErrorResponse.
// Store and submission failures expose the underlying message so the client can retry.
func HandleAPIError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	var submissionErr *apperrors.SubmissionError

	switch {
	case errors.As(err, &validationErr):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithSeverity(dto.ErrorSeverityWarning)
		if len(validationErr.Fields) > 0 {
			detail = detail.WithField(validationErr.Fields[0].Field)
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail.WithDetails(validationErr.Fields)))
		return
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()).WithSeverity(dto.ErrorSeverityWarning)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	case errors.Is(err, apperrors.ErrResourceNotFound):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()).WithSeverity(dto.ErrorSeverityInfo)
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
		return
	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists, apperrors.ErrConflict):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))
		return
	case errors.As(err, &submissionErr):
		logger.Warn().Err(err).Str("path", c.FullPath()).Msg("Review submission failed")
		detail := dto.NewErrorDetail(dto.ErrorCodeSubmissionFailed, submissionErr.Cause)
		if submissionErr.Err != nil {
			detail = detail.WithDetails(submissionErr.Err.Error())
		}
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, dto.NewErrorResponse(detail))
		return
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Str("path", c.FullPath()).Msg("Data store call timed out")
		detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Data store did not respond in time")
		c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponse(detail))
		return
	case errors.Is(err, apperrors.ErrStore):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Data store failure")
		detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Data store request failed").WithDetails(err.Error())
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(detail))
		return
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
		return
	}
}
