//go:build integration

package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/baechuer/contacts-service/internal/config"
	"github.com/baechuer/contacts-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/contacts-service/internal/infrastructure/redis"
)

const pollEvery = 400 * time.Millisecond

// Await polls check until it succeeds or ctx ends.
func Await(ctx context.Context, name string, check func(context.Context) error) error {
	t := time.NewTicker(pollEvery)
	defer t.Stop()

	var last error
	for {
		if last = check(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait %s: %w (last=%v)", name, ctx.Err(), last)
		case <-t.C:
		}
	}
}

// AwaitStack blocks until every backing service accepts the same connections
// the API makes at startup.
func AwaitStack(ctx context.Context, env Env) error {
	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", func(context.Context) error {
			db, err := config.NewDB(env.DBAddr, false)
			if err != nil {
				return err
			}
			return db.Close()
		}},
		{"redis", func(ctx context.Context) error {
			c := redis.New(env.RedisAddr, "", 0)
			defer func() { _ = c.Close() }()
			return c.Ping(ctx)
		}},
		{"rabbitmq", func(ctx context.Context) error {
			p, err := rabbitmq.NewPublisher(env.RabbitURL, env.Exchange)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()
			return p.Ping(ctx)
		}},
	}
	for _, c := range checks {
		if err := Await(ctx, c.name, c.check); err != nil {
			return err
		}
	}
	return nil
}
