package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/contacts-service/internal/pkg/context"
)

const serviceName = "contacts-service"

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := os.Getenv("LOG_FORMAT") // "json" or "console"
	if format == "" {
		format = "console"
	}

	var out io.Writer = w
	if format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Logger().
		Level(level)

	// set global
	zlog.Logger = Logger
}

// WithCtx returns Logger enriched with the request and user ids carried by ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		lc = lc.Str("request_id", rid)
	}
	if uid, ok := appCtx.GetUserID(ctx); ok {
		lc = lc.Int64("user_id", uid)
	}
	l := lc.Logger()
	return &l
}
