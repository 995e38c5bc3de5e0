package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/audit"
	"github.com/baechuer/contacts-service/internal/config"
	"github.com/baechuer/contacts-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/contacts-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/contacts-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/contacts-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/contacts-service/internal/infrastructure/redis"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
	"github.com/baechuer/contacts-service/internal/logger"
	"github.com/baechuer/contacts-service/internal/metrics"
	http_handlers "github.com/baechuer/contacts-service/internal/transport/http/handlers"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
	"github.com/baechuer/contacts-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher is the broker-backed event publisher.
type Publisher interface {
	auth.EventPublisher
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	ready := map[string]http_handlers.Pinger{}

	// 1) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec, err := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return fail(err)
	}

	// 2) stores: postgres, or in-memory when no DB is configured (dev only)
	var (
		userRepo    auth.UserRepo
		contactRepo contacts.ContactRepo
	)
	if cfg.DBAddr == "" {
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory store")
		mem := memory.NewUserRepo()
		memory.SeedUsers(context.Background(), mem, hasher)
		userRepo = mem
		contactRepo = memory.NewContactRepo()
	} else {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(fmt.Errorf("db connect: %w", err))
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBAutoMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := deps.Migrate(ctx, db)
			cancel()
			if err != nil {
				return fail(fmt.Errorf("db migrate: %w", err))
			}
		}

		userRepo = postgres.NewUserRepo(db)
		contactRepo = postgres.NewContactRepo(db)
		ready["postgres"] = http_handlers.PingFunc(db.PingContext)
	}

	// 3) redis (best-effort): user lookup cache + shared rate limiter
	var limiter *redis.FixedWindowLimiter
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache disabled, in-process rate limiting")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			userRepo = redis.NewCachedUserRepo(userRepo, c, cfg.UserCacheTTL)
			limiter = redis.NewFixedWindowLimiter(c)
			ready["redis"] = c
		}
	}

	// 4) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
			pub = p
			ready["rabbitmq"] = p
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(fmt.Errorf("rabbitmq connect: %w", err))
		}
	}

	// 5) services
	authSvc := auth.NewService(userRepo, hasher, codec, pub, auth.Config{
		AccessTTL:          cfg.AccessTokenTTL,
		RefreshTTL:         cfg.RefreshTokenTTL,
		EmailTTL:           cfg.EmailTokenTTL,
		VerifyEmailBaseURL: cfg.VerifyEmailBaseURL,
	}).WithAudit(audit.New(logger.Logger).Record)

	contactSvc := contacts.New(contactRepo)

	// 6) handlers + middleware
	authMW := middleware.Auth(authSvc, response.WriteError)

	var rl middleware.RateLimiter
	if limiter != nil {
		rl = limiter
	}
	rateLimit := func(route string) func(http.Handler) http.Handler {
		return middleware.RateLimit(rl, middleware.FixedWindowConfig{
			RouteKey: route,
			Limit:    cfg.AuthRateLimit,
			Window:   cfg.RateLimitWindow,

			TrustForwardedFor: cfg.TrustProxy,
		}, response.WriteError)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      http_handlers.NewHealthHandler(ready),
		Auth:        http_handlers.NewAuthHandler(authSvc),
		Contacts:    http_handlers.NewContactsHandler(contactSvc),
		AuthMW:      authMW,
		RateLimitMW: rateLimit,
		Metrics:     metrics.Handler(),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { runCleanup(cleanupFns) })
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
