package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Root(w http.ResponseWriter, r *http.Request)
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Secret(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Email confirmation
	ConfirmEmail(w http.ResponseWriter, r *http.Request)
	RequestEmail(w http.ResponseWriter, r *http.Request)
}

type ContactsHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Contacts ContactsHandler

	AuthMW func(http.Handler) http.Handler
	// RateLimitMW returns the limiter for a route group; nil disables limiting.
	RateLimitMW func(routeKey string) func(http.Handler) http.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Contacts == nil {
		return nil, fmt.Errorf("nil Contacts handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	limit := deps.RateLimitMW
	if limit == nil {
		limit = func(string) func(http.Handler) http.Handler {
			return func(next http.Handler) http.Handler { return next }
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/", deps.Health.Root)
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// --- Core auth ---
	r.With(limit("auth.signup")).Post("/signup", deps.Auth.Signup)
	r.With(limit("auth.login")).Post("/login", deps.Auth.Login)
	r.With(limit("auth.refresh")).Get("/refresh_token", deps.Auth.Refresh)
	r.With(deps.AuthMW).Post("/logout", deps.Auth.Logout)
	r.With(deps.AuthMW).Get("/secret", deps.Auth.Secret)

	r.Route("/api", func(r chi.Router) {
		// --- Email confirmation ---
		r.Get("/auth/confirmed_email/{token}", deps.Auth.ConfirmEmail)
		r.With(limit("auth.request_email")).Post("/auth/request_email", deps.Auth.RequestEmail)

		r.With(deps.AuthMW).Get("/users/me", deps.Auth.Me)

		// --- Contacts (owner-scoped) ---
		r.Route("/contacts", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Get("/", deps.Contacts.List)
			r.Post("/", deps.Contacts.Create)
			r.Get("/{contact_id}", deps.Contacts.Get)
			r.Put("/{contact_id}", deps.Contacts.Update)
			r.Delete("/{contact_id}", deps.Contacts.Delete)
		})
	})

	return r, nil
}
