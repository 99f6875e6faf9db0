package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	var notFound *apperrors.EntityNotFoundError
	var custom *apperrors.CustomError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorTypeEntityNotFound, notFound.Error()))

	case errors.Is(err, apperrors.ErrValidationFailed):
		resp := dto.NewErrorResponse(dto.ErrorTypeValidation, err.Error())
		if errors.As(err, &custom) {
			resp.WithDetails(custom.Details)
		}
		c.JSON(http.StatusBadRequest, resp)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorTypeAccessDenied, "Access Denied"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorTypeBadCredentials, "Bad credentials"))

	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorTypeDataIntegrity, err.Error()))

	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorTypeInternalServerError, "An unexpected error occurred"))
	}
}
