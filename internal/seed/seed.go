package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/ucsb-cs156/crudapi/internal/config"
)

// AccountCreator creates a login account unless one already exists
type AccountCreator interface {
	EnsureAccount(ctx context.Context, email, password string, admin bool) (bool, error)
}

// CreateDefaultAccounts creates the admin and user accounts named in the
// seed config section. Accounts without an email are skipped.
func CreateDefaultAccounts(ctx context.Context, accounts AccountCreator, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default accounts...")

	defaults := []struct {
		email    string
		password string
		admin    bool
	}{
		{cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, true},
		{cfg.Seed.UserEmail, cfg.Seed.UserPassword, false},
	}

	var finalErr error // collect errors without stopping the process
	for _, d := range defaults {
		if d.email == "" {
			continue
		}
		created, err := accounts.EnsureAccount(ctx, d.email, d.password, d.admin)
		if err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			lgr.Info().Str("email", d.email).Bool("admin", d.admin).Msg("Default account created")
		}
	}

	return finalErr
}
