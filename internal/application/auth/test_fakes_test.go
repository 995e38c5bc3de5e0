package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byEmail map[string]domain.User
	nextID  int64

	// injected errors (if set, method returns error)
	getByEmailErr   error
	createErr       error
	setRefreshErr   error
	swapErr         error
	setConfirmedErr error

	// forces SwapRefreshToken to report a lost race
	swapLoses bool

	// record calls
	setRefreshCalls int
	confirmed       []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]domain.User{}}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.nextID++
	u := domain.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserRepo) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setRefreshCalls++
	if f.setRefreshErr != nil {
		return f.setRefreshErr
	}
	for email, u := range f.byEmail {
		if u.ID == userID {
			u.RefreshToken = copyStr(token)
			f.byEmail[email] = u
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeUserRepo) SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.swapErr != nil {
		return false, f.swapErr
	}
	if f.swapLoses {
		return false, nil
	}
	for email, u := range f.byEmail {
		if u.ID == userID {
			if !u.HasRefreshToken(oldToken) {
				return false, nil
			}
			u.RefreshToken = &newToken
			f.byEmail[email] = u
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SetConfirmedEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setConfirmedErr != nil {
		return f.setConfirmedErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ConfirmedEmail = true
	f.byEmail[email] = u
	f.confirmed = append(f.confirmed, email)
	return nil
}

// seed stores a user directly, bypassing Create.
func (f *fakeUserRepo) seed(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	}
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) stored(email string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email]
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) bool {
	return hash == "hash:"+password
}

// fakeCodec keeps issued claims in memory; tokens are opaque counters.
type fakeCodec struct {
	mu sync.Mutex

	n      int
	issued map[string]TokenClaims

	encodeErr error
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{issued: map[string]TokenClaims{}}
}

func (c *fakeCodec) Encode(claims TokenClaims) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.encodeErr != nil {
		return "", c.encodeErr
	}
	c.n++
	tok := fmt.Sprintf("tok.%s.%d", claims.Scope, c.n)
	c.issued[tok] = claims
	return tok, nil
}

func (c *fakeCodec) Decode(token string) (TokenClaims, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	claims, ok := c.issued[token]
	if !ok {
		if strings.HasPrefix(token, "tok.") {
			return TokenClaims{}, domain.ErrTokenInvalidSignature(errors.New("unknown token"))
		}
		return TokenClaims{}, domain.ErrTokenMalformed(errors.New("garbage"))
	}
	if !claims.ExpiresAt.After(time.Now()) {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	return claims, nil
}

// mint registers a token with arbitrary claims.
func (c *fakeCodec) mint(claims TokenClaims) string {
	if claims.ExpiresAt.IsZero() {
		claims.ExpiresAt = time.Now().Add(time.Hour)
	}
	tok, _ := c.Encode(claims)
	return tok
}

type fakePublisher struct {
	mu sync.Mutex

	err    error
	events []VerifyEmailEvent
}

func (p *fakePublisher) PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

/*
Helpers
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeCodec, *fakePublisher, *[]auditEntry) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	codec := newFakeCodec()
	pub := &fakePublisher{}

	var mu sync.Mutex
	audits := &[]auditEntry{}
	cfg := Config{
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         7 * 24 * time.Hour,
		EmailTTL:           24 * time.Hour,
		VerifyEmailBaseURL: "http://localhost:8000/api/auth/confirmed_email/",
	}

	svc := NewService(users, hasher, codec, pub, cfg).
		WithAudit(func(ctx context.Context, action string, fields map[string]string) {
			cp := map[string]string{}
			for k, v := range fields {
				cp[k] = v
			}
			mu.Lock()
			*audits = append(*audits, auditEntry{action: action, fields: cp})
			mu.Unlock()
		})

	// sanity check: no nil ports
	if svc == nil {
		t.Fatalf("expected service")
	}
	return svc, users, hasher, codec, pub, audits
}

func requireDomainCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	got := domainCode(err)
	if got != wantCode {
		t.Fatalf("expected domain code %q, got %q (err=%v)", wantCode, got, err)
	}
}

func lastAudit(audits *[]auditEntry) (auditEntry, bool) {
	if audits == nil || len(*audits) == 0 {
		return auditEntry{}, false
	}
	return (*audits)[len(*audits)-1], true
}

func requireAuditAction(t *testing.T, audits *[]auditEntry, wantAction string) auditEntry {
	t.Helper()
	e, ok := lastAudit(audits)
	if !ok {
		t.Fatalf("expected audit entry, got none")
	}
	if e.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, e.action)
	}
	return e
}

func requireAuditField(t *testing.T, e auditEntry, k, want string) {
	t.Helper()
	got := strings.TrimSpace(e.fields[k])
	if got != want {
		t.Fatalf("expected audit field %s=%q, got %q", k, want, got)
	}
}
