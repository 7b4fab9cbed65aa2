package dispatchhandlers

import (
	"context"
	"log/slog"

	"github.com/vitalvas/strada/dispatch"
)

// LoggingConfig configures the logging observer.
type LoggingConfig struct {
	// Logger receives the dispatch records. When nil, slog.Default()
	// is used.
	Logger *slog.Logger

	// Level is the level for dispatches that completed without an error.
	// Defaults to slog.LevelInfo. Failed dispatches always log at
	// slog.LevelError.
	Level slog.Level
}

// loggingObserver writes one structured log line per dispatch.
type loggingObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLoggingObserver returns an observer that logs every dispatch with its
// method, path, matched route, outcome, and latency. Dispatch errors are
// logged at error level with the error attached.
func NewLoggingObserver(cfg LoggingConfig) dispatch.Observer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &loggingObserver{
		logger: logger,
		level:  cfg.Level,
	}
}

func (o *loggingObserver) ObserveDispatch(s dispatch.Stats) {
	attrs := []slog.Attr{
		slog.String("method", s.Method),
		slog.String("path", s.Path),
		slog.String("outcome", s.Kind.String()),
		slog.Int64("latency_ms", s.Duration.Milliseconds()),
	}

	if s.Route != nil {
		attrs = append(attrs, slog.String("route", s.Route.Template()))
		if name := s.Route.GetName(); name != "" {
			attrs = append(attrs, slog.String("route_name", name))
		}
	}

	if s.Err != nil {
		attrs = append(attrs, slog.Any("error", s.Err))
		o.logger.LogAttrs(context.Background(), slog.LevelError, "dispatch failed", attrs...)
		return
	}

	o.logger.LogAttrs(context.Background(), o.level, "dispatch completed", attrs...)
}
