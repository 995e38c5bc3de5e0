package auth

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// IssueEmailVerificationToken signs an email-scoped token for email.
func (s *Service) IssueEmailVerificationToken(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.ErrMissingField("email")
	}
	return s.sign(email, domain.ScopeEmail)
}

// ResolveEmailFromToken returns the email an email-scoped token was issued for.
// Tokens that fail to decode are reported as unprocessable.
func (s *Service) ResolveEmailFromToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingField("token")
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		return "", domain.ErrInvalidEmailToken(err)
	}
	if claims.Scope != domain.ScopeEmail {
		return "", domain.ErrInvalidScope()
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", domain.ErrInvalidSubject()
	}
	return claims.Subject, nil
}

// ConfirmEmail marks the token's user as confirmed. It reports true when the
// email was already confirmed, in which case nothing is written.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	email, err := s.ResolveEmailFromToken(token)
	if err != nil {
		return false, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return false, domain.ErrVerificationFailed()
		}
		return false, err
	}
	if u.ConfirmedEmail {
		return true, nil
	}

	if err := s.users.SetConfirmedEmail(ctx, u.Email); err != nil {
		return false, err
	}
	s.audit(ctx, "email_confirmed", map[string]string{"email": u.Email})
	return false, nil
}

// RequestEmailVerification publishes a confirmation link for an unconfirmed user.
// IMPORTANT: non-enumerating - unknown and already-confirmed emails return nil.
func (s *Service) RequestEmailVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return nil
		}
		return err
	}
	if u.ConfirmedEmail {
		return nil
	}

	token, err := s.IssueEmailVerificationToken(u.Email)
	if err != nil {
		return err
	}

	if err := s.pub.PublishVerifyEmail(ctx, VerifyEmailEvent{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		URL:      s.verifyEmailBaseURL + token,
	}); err != nil {
		return err
	}
	s.audit(ctx, "verify_email_requested", map[string]string{"email": u.Email})
	return nil
}
