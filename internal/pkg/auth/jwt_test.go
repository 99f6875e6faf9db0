package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "crudapi-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: 7, Email: "admin@ucsb.edu", Admin: true}

	token, expiresIn, err := svc.GenerateAccessToken(user, user.Roles())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "admin@ucsb.edu" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if !models.HasRole(claims.Roles, models.RoleAdmin) || !models.HasRole(claims.Roles, models.RoleUser) {
		t.Errorf("roles = %v, want both user and admin", claims.Roles)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(&models.User{ID: 1, Email: "u@ucsb.edu"}, []models.Role{models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).GenerateAccessToken(&models.User{ID: 1, Email: "u@ucsb.edu"}, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "crudapi-test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	token, _, _ := newTestService(time.Hour).GenerateAccessToken(&models.User{ID: 1, Email: "u@ucsb.edu"}, nil)

	other := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "someone-else"})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected issuer mismatch to fail")
	}
}

func TestValidateAndExtractClaims_Empty(t *testing.T) {
	if _, err := newTestService(time.Hour).ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"abc", "abc", false},
		{"", "", true},
		{"Bearer ", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractBearerToken(%q) err = %v, wantErr %v", tt.header, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPasswordWithCost("secret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordWithCost: %v", err)
	}
	if !CheckPassword(hash, "secret") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
