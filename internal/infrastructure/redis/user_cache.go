package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/logger"
)

const defaultUserCacheTTL = 30 * time.Second

// CachedUserRepo puts a short-lived Redis cache in front of an auth.UserRepo.
// Only GetProfileByEmail is served from cache, and the cached entry never
// holds the password hash or refresh token. GetByEmail and every write go to
// the inner repo; writes that change the profile drop the cached entry.
// Redis failures fall through to the inner repo.
type CachedUserRepo struct {
	inner  auth.UserRepo
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

var (
	_ auth.UserRepo      = (*CachedUserRepo)(nil)
	_ auth.ProfileReader = (*CachedUserRepo)(nil)
)

func NewCachedUserRepo(inner auth.UserRepo, c *Client, ttl time.Duration) *CachedUserRepo {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	r := &CachedUserRepo{inner: inner, ttl: ttl, prefix: "user:"}
	if c != nil {
		r.rdb = c.rdb
	}
	return r
}

// cachedProfile is the JSON shape stored in Redis.
type cachedProfile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ConfirmedEmail bool      `json:"confirmed_email"`
	Avatar         *string   `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func profileOf(u domain.User) cachedProfile {
	return cachedProfile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ConfirmedEmail: u.ConfirmedEmail,
		Avatar:         u.Avatar,
		CreatedAt:      u.CreatedAt,
	}
}

func (p cachedProfile) user() domain.User {
	return domain.User{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		ConfirmedEmail: p.ConfirmedEmail,
		Avatar:         p.Avatar,
		CreatedAt:      p.CreatedAt,
	}
}

func (r *CachedUserRepo) key(email string) string {
	return r.prefix + "email:" + domain.NormalizeEmail(email)
}

// GetByEmail always reads the inner repo; callers get the credential fields.
func (r *CachedUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.inner.GetByEmail(ctx, email)
}

// GetProfileByEmail returns the user without PasswordHash and RefreshToken.
func (r *CachedUserRepo) GetProfileByEmail(ctx context.Context, email string) (domain.User, error) {
	if r.rdb != nil {
		raw, err := r.rdb.Get(ctx, r.key(email)).Bytes()
		switch {
		case err == nil:
			var p cachedProfile
			if jerr := json.Unmarshal(raw, &p); jerr == nil {
				return p.user(), nil
			}
			// corrupt entry: drop it and reload
			_ = r.rdb.Del(ctx, r.key(email)).Err()
		case errors.Is(err, goredis.Nil):
		default:
			logger.WithCtx(ctx).Warn().Err(err).Msg("user cache read failed")
		}
	}

	u, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	p := profileOf(u)

	if r.rdb != nil {
		if b, jerr := json.Marshal(p); jerr == nil {
			if serr := r.rdb.Set(ctx, r.key(u.Email), b, r.ttl).Err(); serr != nil {
				logger.WithCtx(ctx).Warn().Err(serr).Msg("user cache write failed")
			}
		}
	}
	return p.user(), nil
}

func (r *CachedUserRepo) Create(ctx context.Context, username, email, passwordHash string) (domain.User, error) {
	u, err := r.inner.Create(ctx, username, email, passwordHash)
	if err != nil {
		return u, err
	}
	r.invalidate(ctx, u.Email)
	return u, nil
}

// Refresh-token writes leave the cached profile alone; it holds no token.
func (r *CachedUserRepo) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	return r.inner.SetRefreshToken(ctx, userID, token)
}

func (r *CachedUserRepo) SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	return r.inner.SwapRefreshToken(ctx, userID, oldToken, newToken)
}

func (r *CachedUserRepo) SetConfirmedEmail(ctx context.Context, email string) error {
	if err := r.inner.SetConfirmedEmail(ctx, email); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *CachedUserRepo) invalidate(ctx context.Context, email string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, r.key(email)).Err(); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("user cache invalidate failed")
	}
}
