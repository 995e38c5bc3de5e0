package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
	appCtx "github.com/baechuer/contacts-service/internal/pkg/context"
)

// UserResolver turns an access token into the user it was issued to.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, accessToken string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// BearerToken extracts the token from Authorization: Bearer <token>.
func BearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", domain.ErrTokenMissing()
	}

	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenMissing()
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrTokenMissing()
	}
	return raw, nil
}

// Auth resolves the bearer access token to a user and injects it into the
// request context. Any failure is written through writeErr.
func Auth(users UserResolver, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			u, err := users.ResolveCurrentUser(r.Context(), raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			ctx := appCtx.WithUserID(WithUser(r.Context(), u), u.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
