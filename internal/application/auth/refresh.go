package auth

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Refresh exchanges a refresh token for a new pair (rotation).
// A token that is not the one stored for its user clears the stored value,
// so a leaked-and-replayed token also kills the legitimate session.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return TokenPair{}, domain.ErrTokenMissing()
	}

	claims, err := s.decodeScoped(presented, domain.ScopeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, err
	}

	if !u.HasRefreshToken(presented) {
		if err := s.users.SetRefreshToken(ctx, u.ID, nil); err != nil {
			return TokenPair{}, err
		}
		s.audit(ctx, "refresh_revoked", map[string]string{"email": u.Email})
		return TokenPair{}, domain.ErrRefreshTokenRevoked()
	}

	pair, err := s.issueTokens(u.Email)
	if err != nil {
		return TokenPair{}, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, u.ID, presented, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !swapped {
		// a concurrent refresh with the same token won
		s.audit(ctx, "refresh_revoked", map[string]string{"email": u.Email, "reason": "lost_race"})
		return TokenPair{}, domain.ErrRefreshTokenRevoked()
	}

	s.audit(ctx, "token_refreshed", map[string]string{"email": u.Email})
	return pair, nil
}
