package audit

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/baechuer/contacts-service/internal/metrics"
	appCtx "github.com/baechuer/contacts-service/internal/pkg/context"
)

// Logger provides structured audit logging for auth business events
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// warnActions are security-relevant failures and are logged at warn level.
var warnActions = map[string]bool{
	"login_failed":    true,
	"refresh_revoked": true,
}

// Record writes one audit event and counts it. Email fields are masked.
// Its signature matches auth.Service.WithAudit.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	evt := l.log.Info()
	if warnActions[action] {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)
	for k, v := range fields {
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		evt = evt.Str("request_id", rid)
	}
	if uid, ok := appCtx.GetUserID(ctx); ok {
		evt = evt.Int64("user_id", uid)
	}
	evt.Msg("audit")

	metrics.RecordAuthEvent(action)
}

// maskEmail keeps at most the first two runes of the local part and the domain.
func maskEmail(email string) string {
	if utf8.RuneCountInString(email) < 5 {
		return "***"
	}
	local, domain, found := strings.Cut(email, "@")
	keep := []rune(local)
	if len(keep) > 2 {
		keep = keep[:2]
	}
	if !found {
		return string(keep) + "***"
	}
	return string(keep) + "***@" + domain
}
