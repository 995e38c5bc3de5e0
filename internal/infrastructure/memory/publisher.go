package memory

import (
	"context"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/logger"
)

// NoopPublisher logs verification events instead of sending them. Used in dev
// when RabbitMQ is unreachable.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishVerifyEmail(ctx context.Context, evt auth.VerifyEmailEvent) error {
	logger.WithCtx(ctx).Info().
		Int64("user_id", evt.UserID).
		Str("url", evt.URL).
		Msg("noop publisher: verify email")
	return nil
}
