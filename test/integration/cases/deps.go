//go:build integration

package cases

import (
	"context"
	"database/sql"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/infrastructure/db/migrations"
	pg "github.com/baechuer/contacts-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/contacts-service/internal/infrastructure/messaging/rabbitmq"
	rediscache "github.com/baechuer/contacts-service/internal/infrastructure/redis"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
	itinfra "github.com/baechuer/contacts-service/test/integration/infra"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const verifyBaseURL = "http://localhost:8000/api/auth/confirmed_email/"

type Deps struct {
	DB    *sql.DB
	RDB   *goredis.Client
	Redis *rediscache.Client
	AMQP  *amqp.Connection

	Exchange string

	Users   *rediscache.CachedUserRepo
	Codec   *security.JWTCodec
	Pub     *rabbitmq.Publisher
	Limiter *rediscache.FixedWindowLimiter

	Auth     *auth.Service
	Contacts *contacts.Service
}

func MustNewDeps(t *testing.T, env itinfra.Env) *Deps {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	require.NoError(t, itinfra.AwaitStack(ctx, env))

	// --- Postgres ---
	db, err := sql.Open("pgx", env.DBAddr)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, db))

	// --- Redis ---
	rdb := goredis.NewClient(&goredis.Options{Addr: env.RedisAddr})
	require.NoError(t, rdb.Ping(ctx).Err())
	rc := rediscache.New(env.RedisAddr, "", 0)

	require.NoError(t, itinfra.Reset(ctx, db, rdb))

	// --- RabbitMQ ---
	conn, err := amqp.Dial(env.RabbitURL)
	require.NoError(t, err)
	pub, err := rabbitmq.NewPublisher(env.RabbitURL, env.Exchange)
	require.NoError(t, err)

	codec, err := security.NewJWTCodec("integration-test-secret", "HS256")
	require.NoError(t, err)

	users := rediscache.NewCachedUserRepo(pg.NewUserRepo(db), rc, time.Minute)
	svc := auth.NewService(users, security.NewBcryptHasher(4), codec, pub, auth.Config{
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         7 * 24 * time.Hour,
		EmailTTL:           24 * time.Hour,
		VerifyEmailBaseURL: verifyBaseURL,
	})

	d := &Deps{
		DB: db, RDB: rdb, Redis: rc, AMQP: conn,
		Exchange: env.Exchange,
		Users:    users,
		Codec:    codec,
		Pub:      pub,
		Limiter:  rediscache.NewFixedWindowLimiter(rc),
		Auth:     svc,
		Contacts: contacts.New(pg.NewContactRepo(db)),
	}
	t.Cleanup(d.Close)
	return d
}

func (d *Deps) Close() {
	if d.Pub != nil {
		_ = d.Pub.Close()
	}
	if d.AMQP != nil {
		_ = d.AMQP.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.RDB != nil {
		_ = d.RDB.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func mustEnv(t *testing.T) itinfra.Env {
	t.Helper()
	env, err := itinfra.LoadEnv()
	require.NoError(t, err)
	return env
}
