// api/cmd/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/contacts-service/internal/bootstrap"
	"github.com/baechuer/contacts-service/internal/logger"
)

// shutdownGrace bounds how long in-flight requests may drain.
const shutdownGrace = 15 * time.Second

// server is the part of *http.Server that run drives.
type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// service is a wired contacts API ready to listen.
type service struct {
	srv     server
	addr    string
	cleanup func()
}

type buildFunc func() (*service, error)

// run serves until ctx is cancelled or the listener fails, then drains
// within grace. It returns the process exit code.
func run(ctx context.Context, build buildFunc, grace time.Duration, lg zerolog.Logger) int {
	svc, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer svc.cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", svc.addr).Msg("contacts api listening")
		if err := svc.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		lg.Info().Msg("shutdown requested")
	case err := <-errCh:
		lg.Error().Err(err).Str("addr", svc.addr).Msg("listener failed")
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	start := time.Now()
	if err := svc.srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Dur("grace", grace).Msg("drain incomplete; closing connections")
		_ = svc.srv.Close()
	}

	lg.Info().Dur("took", time.Since(start)).Msg("shutdown complete")
	return 0
}

// fromBootstrap adapts a bootstrap constructor into a buildFunc.
func fromBootstrap(newServer func() (*http.Server, func(), error)) buildFunc {
	return func() (*service, error) {
		srv, cleanup, err := newServer()
		if err != nil {
			return nil, err
		}
		return &service{srv: srv, addr: srv.Addr, cleanup: cleanup}, nil
	}
}

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, fromBootstrap(bootstrap.NewServer), shutdownGrace, logger.Logger))
}
