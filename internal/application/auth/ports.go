package auth

import (
	"context"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (domain.User, error)

	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, userID int64, token *string) error
	// SwapRefreshToken replaces oldToken with newToken only if oldToken is
	// still the stored value. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error)
	SetConfirmedEmail(ctx context.Context, email string) error
}

// ProfileReader is an optional UserRepo extension for lookups that never need
// PasswordHash or RefreshToken, such as bearer resolution. Implementations may
// serve it from a cache.
type ProfileReader interface {
	GetProfileByEmail(ctx context.Context, email string) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

/*
TokenCodec
----------
Encodes and decodes signed, expiring, scoped claim sets (JWT).
Lifetimes are chosen by the caller.
*/
type TokenClaims struct {
	Subject   string
	Scope     domain.TokenScope
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

type TokenCodec interface {
	Encode(claims TokenClaims) (string, error)
	Decode(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes events to RabbitMQ.
The service does NOT send emails directly.
*/
type EventPublisher interface {
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
}

type VerifyEmailEvent struct {
	UserID   int64
	Username string
	Email    string
	URL      string
}
