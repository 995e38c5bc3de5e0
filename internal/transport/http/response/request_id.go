package response

import (
	"net/http"

	appCtx "github.com/baechuer/contacts-service/internal/pkg/context"
)

// RequestIDFromContext extracts the id set by the request id middleware.
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
