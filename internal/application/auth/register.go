package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Signup creates a user with a hashed password. It does not log the user in.
func (s *Service) Signup(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = domain.NormalizeEmail(email)

	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return domain.User{}, err
		}
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return domain.User{}, err
	}

	s.audit(ctx, "signup", map[string]string{"email": u.Email})
	return u, nil
}
