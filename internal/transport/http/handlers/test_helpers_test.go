package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/infrastructure/memory"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []auth.VerifyEmailEvent
}

func (p *recordingPublisher) PublishVerifyEmail(_ context.Context, evt auth.VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) last(t *testing.T) auth.VerifyEmailEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		t.Fatalf("expected a published event")
	}
	return p.events[len(p.events)-1]
}

type testApp struct {
	handler http.Handler
	svc     *auth.Service
	users   *memory.UserRepo
	pub     *recordingPublisher
}

const testVerifyBase = "http://localhost:8000/api/auth/confirmed_email/"

// newTestApp wires the real auth service (JWT + bcrypt) over in-memory stores
// and mounts the handlers the same way the router does.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	codec, err := security.NewJWTCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	users := memory.NewUserRepo()
	pub := &recordingPublisher{}
	svc := auth.NewService(users, security.NewBcryptHasher(bcrypt.MinCost), codec, pub, auth.Config{
		VerifyEmailBaseURL: testVerifyBase,
	})

	ah := NewAuthHandler(svc)
	ch := NewContactsHandler(contacts.New(memory.NewContactRepo()))
	hh := NewHealthHandler(nil)
	authMW := middleware.Auth(svc, response.WriteError)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/", hh.Root)
	r.Post("/signup", ah.Signup)
	r.Post("/login", ah.Login)
	r.Get("/refresh_token", ah.Refresh)
	r.With(authMW).Post("/logout", ah.Logout)
	r.With(authMW).Get("/secret", ah.Secret)
	r.Get("/api/auth/confirmed_email/{token}", ah.ConfirmEmail)
	r.Post("/api/auth/request_email", ah.RequestEmail)
	r.With(authMW).Get("/api/users/me", ah.Me)
	r.Route("/api/contacts", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", ch.List)
		r.Post("/", ch.Create)
		r.Get("/{contact_id}", ch.Get)
		r.Put("/{contact_id}", ch.Update)
		r.Delete("/{contact_id}", ch.Delete)
	})

	return &testApp{handler: r, svc: svc, users: users, pub: pub}
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) signup(t *testing.T, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, "/signup", mustJSONBody(t, map[string]string{
		"username": username, "email": email, "password": password,
	}), map[string]string{"Content-Type": "application/json"})
}

func (a *testApp) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	return a.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

// loginTokens signs up + logs in and returns the token pair.
func (a *testApp) loginTokens(t *testing.T, username, email, password string) tokenBody {
	t.Helper()
	if rr := a.signup(t, username, email, password); rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := a.login(t, email, password)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var tb tokenBody
	mustReadJSON(t, rr.Body, &tb)
	return tb
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func bearerJSON(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok, "Content-Type": "application/json"}
}

type tokenBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type errorBody struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta"`
		RequestID string            `json:"request_id"`
	} `json:"error"`
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed: %v; body=%s", err, string(raw))
	}
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, rr.Code, rr.Body.String())
	}
	var eb errorBody
	mustReadJSON(t, rr.Body, &eb)
	if eb.Error.Code != code {
		t.Fatalf("expected code %q, got %q", code, eb.Error.Code)
	}
}
