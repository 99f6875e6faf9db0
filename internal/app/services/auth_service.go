package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/app/repositories"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    repositories.Repository[models.User]
	jwtService  *auth.JWTService
	adminEmails []string
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService. Accounts whose email is in
// adminEmails are granted ROLE_ADMIN at login.
func NewAuthService(
	userRepo repositories.Repository[models.User],
	jwtService *auth.JWTService,
	adminEmails []string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		adminEmails: adminEmails,
		logger:      logger,
	}
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.FindOneBy(ctx, "email", email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn().Str("email", email).Msg("Login attempt for unknown account")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	roles := s.RolesFor(user)
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user, roles)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User logged in")
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Roles:       roles,
	}, nil
}

// RolesFor returns the roles granted to user
func (s *AuthService) RolesFor(user *models.User) []models.Role {
	if !user.Admin && s.isAdminEmail(user.Email) {
		return []models.Role{models.RoleUser, models.RoleAdmin}
	}
	return user.Roles()
}

// EnsureAccount creates the account if no account with that email exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAccount(ctx context.Context, email, password string, admin bool) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, apperrors.NewValidationError("email and password are required", nil)
	}

	_, err := s.userRepo.FindOneBy(ctx, "email", email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("error finding user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	if _, err := s.userRepo.Save(ctx, &models.User{Email: email, PasswordHash: hash, Admin: admin}); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// created concurrently
			return false, nil
		}
		return false, fmt.Errorf("error creating user: %w", err)
	}
	return true, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, e := range s.adminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
