package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/logger"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError renders err as {"error": {...}}. Anything that is not a
// *domain.Error becomes an opaque 500; 5xx responses are logged with the cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	payload, status := describe(err)
	payload.RequestID = RequestIDFromContext(r)

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().Err(err).Str("code", payload.Code).Int("status", status).Msg("request failed")
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	if status == http.StatusUnauthorized {
		h.Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: payload})
}

func describe(err error) (ErrorPayload, int) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return ErrorPayload{Code: "internal_error", Message: "internal error"}, http.StatusInternalServerError
	}
	return ErrorPayload{Code: de.Code, Message: de.Message, Meta: de.Meta}, statusFromKind(de.Kind)
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuth:           http.StatusUnauthorized,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindUnprocessable:  http.StatusUnprocessableEntity,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindInfrastructure: http.StatusServiceUnavailable,
	domain.KindInternal:       http.StatusInternalServerError,
}

// statusFromKind falls back to 500 for unknown kinds.
func statusFromKind(kind domain.ErrKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
