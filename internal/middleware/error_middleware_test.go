package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{"not found", apperrors.NewEntityNotFoundError("Book", int64(7)), http.StatusNotFound, dto.ErrorTypeEntityNotFound, "Book with id 7 not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.NewEntityNotFoundError("Movie", 3)), http.StatusNotFound, dto.ErrorTypeEntityNotFound, "Movie with id 3 not found"},
		{"validation", apperrors.NewValidationError("Validation failed", map[string]string{"title": "title is required"}), http.StatusBadRequest, dto.ErrorTypeValidation, "Validation failed"},
		{"forbidden", apperrors.NewForbiddenError("Access Denied"), http.StatusForbidden, dto.ErrorTypeAccessDenied, "Access Denied"},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorTypeBadCredentials, "Bad credentials"},
		{"conflict", apperrors.NewConflictError("Vehicle violates a unique constraint"), http.StatusConflict, dto.ErrorTypeDataIntegrity, "Vehicle violates a unique constraint"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrorTypeInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/book?id=7", nil)

			HandleAPIError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Type != tt.wantType || got.Message != tt.wantMsg {
				t.Errorf("payload = %+v, want type %q message %q", got, tt.wantType, tt.wantMsg)
			}
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/book/post", nil)

	HandleAPIError(c, apperrors.NewValidationError("Validation failed", map[string]string{"date": "date is required"}))

	var got dto.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Details["date"] != "date is required" {
		t.Errorf("details = %v", got.Details)
	}
}
