// Package logger provides structured logging for the service. It wraps
// logrus with the log levels and output formats the configuration exposes
// (json for machines, pretty for humans) and carries request trace IDs
// through context.
package logger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingConfig controls the logger construction.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARNING, ERROR, CRITICAL.
	Level string
	// Format is "json" or "pretty".
	Format string
	// Output is "stdout" (default), "stderr" or "file".
	Output string
	// FilePrefix is the log file path prefix used when Output is "file".
	FilePrefix string
}

// Logger is the application logger.
type Logger struct {
	*logrus.Logger
}

// New constructs a logger from the given configuration. Unknown levels fall
// back to INFO and unknown formats to json, so a logger is always usable.
func New(cfg LoggingConfig) *Logger {
	l := logrus.New()
	l.SetLevel(parseLevel(cfg.Level))
	l.SetFormatter(formatter(cfg.Format))
	l.SetOutput(output(cfg))
	return &Logger{Logger: l}
}

// LogRequest logs one handled HTTP request with its trace ID.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.WithFields(logrus.Fields{
		"trace_id":    TraceIDFrom(ctx),
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	}).Info("request handled")
}

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return logrus.DebugLevel
	case "INFO", "":
		return logrus.InfoLevel
	case "WARNING", "WARN":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	case "CRITICAL":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func formatter(format string) logrus.Formatter {
	if format == "pretty" {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	}
}

func output(cfg LoggingConfig) io.Writer {
	switch cfg.Output {
	case "stderr":
		return os.Stderr
	case "file":
		prefix := cfg.FilePrefix
		if prefix == "" {
			prefix = "service"
		}
		name := fmt.Sprintf("%s-%s.log", prefix, time.Now().UTC().Format("2006-01-02"))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			// Cannot log to the missing file; keep the process observable.
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

type traceIDKey struct{}

// NewTraceID returns a fresh trace identifier.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID returns a context carrying the trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFrom extracts the trace ID from the context, or "" when absent.
func TraceIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey{}).(string); ok {
		return v
	}
	return ""
}

// TraceIDHeader is the header trace IDs travel in.
const TraceIDHeader = "X-Trace-ID"

// TraceIDFromRequest returns the request's trace ID, minting one when the
// client did not send any.
func TraceIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(TraceIDHeader); id != "" {
		return id
	}
	return NewTraceID()
}
