package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Optionally sends errors to Sentry for error tracking
func Init(appName, appEnv string, isDev bool, sentryDSN string) {
	handlers := []slog.Handler{stdoutHandler(os.Stdout, isDev)}

	// Optional Sentry handler (sends errors only)
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			Environment:      appEnv,
			ServerName:       appName,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		} else {
			slog.Warn("sentry init failed, continuing without it", "error", err)
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler).With("app", appName)
	slog.SetDefault(Log)
}

func stdoutHandler(w io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Flush waits for buffered Sentry events; call before exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}
