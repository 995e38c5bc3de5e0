package memory

import (
	"context"

	"github.com/baechuer/contacts-service/internal/logger"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedUsers creates a demo account for local development (in-memory only).
// Safe to call multiple times (duplicates ignored).
func SeedUsers(ctx context.Context, users *UserRepo, hasher Hasher) {
	type seedUser struct {
		Username string
		Email    string
		Pass     string
	}

	seeds := []seedUser{
		{Username: "demo", Email: "user@example.com", Pass: "UserPassword123!"},
	}

	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: hash failed")
			continue
		}
		if _, err := users.Create(ctx, s.Username, s.Email, hash); err != nil {
			// ignore duplicates / restart
			continue
		}
		if err := users.SetConfirmedEmail(ctx, s.Email); err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed: confirm failed")
		}
	}
}
