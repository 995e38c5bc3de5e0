package auth

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Logout clears the stored refresh token. Outstanding access tokens stay
// valid until they expire.
func (s *Service) Logout(ctx context.Context, u domain.User) error {
	if err := s.users.SetRefreshToken(ctx, u.ID, nil); err != nil {
		return err
	}
	s.audit(ctx, "logout", map[string]string{"email": u.Email})
	return nil
}
