package middleware

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// RegisterValidation makes gin's validator report fields by their JSON
// name, which is also the request parameter name.
func RegisterValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// BindError converts a gin binding failure into a validation error with
// per-field details.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, e := range verrs {
			details[e.Field()] = formatValidationError(e)
		}
		return apperrors.NewValidationError("Validation failed", details)
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return apperrors.NewValidationError("Invalid number "+strconv.Quote(numErr.Num), nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewValidationError("Invalid request body", map[string]string{
			typeErr.Field: "must be a " + typeErr.Type.String(),
		})
	}

	logger.Debug().Err(err).Msg("Rejected request body")
	return apperrors.NewValidationError("Invalid request body", nil)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
