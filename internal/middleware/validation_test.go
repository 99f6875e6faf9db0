package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
)

func TestBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	_, numErr := strconv.ParseInt("abc", 10, 64)
	var syntaxErr error = &json.SyntaxError{Offset: 10}

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"empty body", io.EOF, "Invalid request body"},
		{"truncated body", io.ErrUnexpectedEOF, "Invalid request body"},
		{"syntax", syntaxErr, "Invalid request body"},
		{"number", numErr, `Invalid number "abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindError(tt.err)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("BindError(%v) = %v, want validation error", tt.err, err)
			}

			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPut, "/api/book?id=1", nil)
			HandleAPIError(c, err)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var got dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
			if strings.Contains(got.Message, "EOF") {
				t.Errorf("message leaks decoder text: %q", got.Message)
			}
		})
	}
}
