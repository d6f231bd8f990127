package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a small convenience API.
// Development mode uses a human-readable text handler, production uses JSON.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a logger appropriate for the environment
func NewLogger(isDevelopment bool) *Logger {
	var handler slog.Handler

	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithFields returns a child logger that always includes the given fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}
