package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityNotFoundErrorMessage(t *testing.T) {
	tests := []struct {
		entity string
		id     any
		want   string
	}{
		{"Book", int64(2), "Book with id 2 not found"},
		{"Movie", int64(1), "Movie with id 1 not found"},
		{"Student", int64(42), "Student with id 42 not found"},
		{"Vehicle", int64(7), "Vehicle with id 7 not found"},
	}
	for _, tt := range tests {
		if got := NewEntityNotFoundError(tt.entity, tt.id).Error(); got != tt.want {
			t.Fatalf("message = %q, want %q", got, tt.want)
		}
	}
}

func TestEntityNotFoundErrorIsNotFound(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewEntityNotFoundError("Book", int64(3)))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped error to match ErrNotFound")
	}
	var nf *EntityNotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Book" {
		t.Fatalf("expected errors.As to recover the entity, got %v", nf)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not-found must not match ErrConflict")
	}
}

func TestCustomErrorUnwrap(t *testing.T) {
	err := NewValidationError("invalid book", map[string]string{"title": "title is required"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation error to unwrap to ErrValidationFailed")
	}
	if err.Error() != "invalid book" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.Details["title"] != "title is required" {
		t.Fatalf("details lost: %v", err.Details)
	}
	if NewValidationError("x", nil).Details != nil {
		t.Fatalf("empty details should stay nil")
	}
	if !errors.Is(NewConflictError("dup"), ErrConflict) {
		t.Fatalf("conflict error should unwrap to ErrConflict")
	}
	if (&CustomError{}).Error() != "unknown error" {
		t.Fatalf("zero CustomError message")
	}
}
