package auth

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Login checks credentials and issues a new token pair. The refresh token is
// stored on the user, replacing (and so revoking) any previous one.
// A failed login never writes.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = domain.NormalizeEmail(email)

	if email == "" || password == "" {
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindAuth {
			s.audit(ctx, "login_failed", map[string]string{"email": email, "reason": domainCode(err)})
		}
		return TokenPair{}, err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.audit(ctx, "login_failed", map[string]string{"email": email, "reason": "invalid_credentials"})
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	pair, err := s.issueTokens(u.Email)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, u.ID, &pair.RefreshToken); err != nil {
		return TokenPair{}, err
	}

	s.audit(ctx, "login_success", map[string]string{"email": u.Email})
	return pair, nil
}
