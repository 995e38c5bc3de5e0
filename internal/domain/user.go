package domain

import (
	"strings"
	"time"
)

type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	RefreshToken   *string
	ConfirmedEmail bool
	Avatar         *string
	CreatedAt      time.Time
}

// HasRefreshToken reports whether token is the refresh token currently stored for u.
func (u User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && token != "" && *u.RefreshToken == token
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
