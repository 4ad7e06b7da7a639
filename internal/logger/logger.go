// Package logger provides structured logging setup for NeuroFlow.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Strob0t/NeuroFlow/internal/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stdout with a "service" attribute on every record.
// The returned Closer flushes buffered records in async mode and is a
// no-op otherwise.
func New(cfg config.Logging) (*slog.Logger, Closer) {
	level := parseLevel(cfg.Level)

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	closer := Closer(nopCloser{})
	if cfg.Async {
		async := NewAsyncHandler(handler, asyncChanSize, asyncWorkers)
		// Saturation means turn-pipeline logs are being lost; surface it
		// synchronously, but only once per interval to avoid amplifying
		// the overload.
		inner := handler
		async.SetOnDrop(func(total int64) {
			if total%dropNoticeInterval == 0 {
				slog.New(inner).Warn("async log buffer saturated", "dropped_total", total)
			}
		})
		handler = async
		closer = async
	}

	return slog.New(handler).With("service", cfg.Service), closer
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
