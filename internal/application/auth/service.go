package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

const TokenTypeBearer = "bearer"

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	codec  TokenCodec
	pub    EventPublisher

	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration

	// confirmation link prefix; the token is appended as the last path segment
	verifyEmailBaseURL string

	audit func(ctx context.Context, action string, fields map[string]string)
	now   func() time.Time
}

type Config struct {
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	EmailTTL           time.Duration
	VerifyEmailBaseURL string
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	codec TokenCodec,
	pub EventPublisher,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	emailTTL := cfg.EmailTTL
	if emailTTL <= 0 {
		emailTTL = 24 * time.Hour
	}
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		pub:    pub,

		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,

		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,

		audit: func(context.Context, string, map[string]string) {},
		now:   time.Now,
	}
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// WithAudit returns a copy of s that reports security events to fn.
func (s *Service) WithAudit(fn func(ctx context.Context, action string, fields map[string]string)) *Service {
	cp := *s
	if fn != nil {
		cp.audit = fn
	}
	return &cp
}

func (s *Service) ttl(scope domain.TokenScope) time.Duration {
	switch scope {
	case domain.ScopeAccess:
		return s.accessTTL
	case domain.ScopeRefresh:
		return s.refreshTTL
	case domain.ScopeEmail:
		return s.emailTTL
	}
	return 0
}

// sign issues a token of the given scope for subject. Refresh tokens carry a
// random jti so that two issued in the same second still differ.
func (s *Service) sign(subject string, scope domain.TokenScope) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}

	now := s.now()
	claims := TokenClaims{
		Subject:   subject,
		Scope:     scope,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl(scope)),
	}
	if scope == domain.ScopeRefresh {
		jti, err := newOpaqueToken(16)
		if err != nil {
			return "", domain.ErrRandomFailed(err)
		}
		claims.ID = jti
	}

	tok, err := s.codec.Encode(claims)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.ErrTokenSignFailed(err)
	}
	return tok, nil
}

// issueTokens signs a fresh access + refresh pair for email.
func (s *Service) issueTokens(email string) (TokenPair, error) {
	access, err := s.sign(email, domain.ScopeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(email, domain.ScopeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenTypeBearer,
	}, nil
}

// decodeScoped decodes token and checks it carries the wanted scope and a subject.
func (s *Service) decodeScoped(token string, want domain.TokenScope) (TokenClaims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return TokenClaims{}, err
	}
	if claims.Scope != want {
		return TokenClaims{}, domain.ErrInvalidScope()
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return TokenClaims{}, domain.ErrInvalidSubject()
	}
	return claims, nil
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
