package http_handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/logger"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Msg("user_registered")

	response.Created(w, dto.SignupResponse{NewUser: u.Email})
}

// Login handles POST /login with an OAuth2 password form (username = email).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := response.DecodeForm(r); err != nil {
		response.WriteError(w, r, err)
		return
	}

	form := dto.LoginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if err := dto.Validate(&form); err != nil {
		response.WriteError(w, r, err)
		return
	}

	pair, err := h.svc.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewTokenResponse(pair))
}

// Refresh handles GET /refresh_token with the refresh token as bearer.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), raw)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewTokenResponse(pair))
}

// Logout handles POST /logout (authenticated).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	if err := h.svc.Logout(r.Context(), u); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.NoContent(w)
}

// Secret handles GET /secret (authenticated).
func (h *AuthHandler) Secret(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.SecretResponse{Message: "secret router", Owner: u.Email})
}

// Me handles GET /api/users/me (authenticated).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.NewUserResponse(u))
}

// ConfirmEmail handles GET /api/auth/confirmed_email/{token}.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		response.WriteError(w, r, domain.ErrMissingField("token"))
		return
	}

	already, err := h.svc.ConfirmEmail(r.Context(), token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if already {
		response.OK(w, dto.MessageResponse{Message: "Your email is already confirmed"})
		return
	}
	response.OK(w, dto.MessageResponse{Message: "Email confirmed"})
}

// RequestEmail handles POST /api/auth/request_email. The reply is the same
// whether or not the address is known.
func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestEmailRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := dto.Validate(&req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.RequestEmailVerification(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MessageResponse{Message: "Check your email for confirmation."})
}
