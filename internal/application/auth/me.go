package auth

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// ResolveCurrentUser maps an access token to its user.
func (s *Service) ResolveCurrentUser(ctx context.Context, accessToken string) (domain.User, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	claims, err := s.decodeScoped(accessToken, domain.ScopeAccess)
	if err != nil {
		return domain.User{}, err
	}
	if pr, ok := s.users.(ProfileReader); ok {
		return pr.GetProfileByEmail(ctx, claims.Subject)
	}
	return s.users.GetByEmail(ctx, claims.Subject)
}
