package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

// UserRepo is an in-process auth.UserRepo for local development and tests.
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64 // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = domain.NormalizeEmail(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.nextID++
	u := domain.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.RefreshToken = cloneStr(token)
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || newToken == "" || !u.HasRefreshToken(oldToken) {
		return false, nil
	}
	u.RefreshToken = &newToken
	r.byID[userID] = u
	return true, nil
}

func (r *UserRepo) SetConfirmedEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u := r.byID[id]
	u.ConfirmedEmail = true
	r.byID[id] = u
	return nil
}

// stored values must not alias caller-held pointers
func cloneUser(u domain.User) domain.User {
	u.RefreshToken = cloneStr(u.RefreshToken)
	u.Avatar = cloneStr(u.Avatar)
	return u
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
