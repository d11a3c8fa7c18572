package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogLevel type alias for log level constants
type LogLevel string

// Log levels
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config contains logger configuration options
type Config struct {
	// Level is the minimum level to log
	Level string
	// JSON enables JSON formatting instead of text
	JSON bool
	// Output is where logs will be written (defaults to os.Stderr)
	Output io.Writer
	// AddSource adds source code information to logs
	AddSource bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:     string(LevelInfo),
		JSON:      true,
		Output:    os.Stderr,
		AddSource: false,
	}
}

// Logger wraps slog for structured logging
type Logger struct {
	*slog.Logger
}

// global is the package-level logger instance
var global *Logger

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	logger := &Logger{Logger: slog.New(handler)}

	// Set this as global if no global logger exists yet
	if global == nil {
		global = logger
	}

	return logger
}

// NewFile creates a logger writing to path, creating parent directories.
// The returned closer releases the file.
func NewFile(path string, config Config) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	config.Output = f
	return New(config), f, nil
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch LogLevel(strings.ToLower(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetGlobal sets the global logger instance
func SetGlobal(logger *Logger) {
	global = logger
}

// GetGlobal returns the global logger instance, creating a default one if needed
func GetGlobal() *Logger {
	if global == nil {
		return New(DefaultConfig())
	}
	return global
}

// LogError logs an error with context information
func (l *Logger) LogError(err error, msg string, args ...any) {
	l.Error(msg, append([]any{"error", err.Error()}, args...)...)
}

// WithRequestID adds a request ID to the logger's context
func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return &Logger{Logger: l.With("request_id", requestID)}
}

// WithComponent tags all entries with the emitting component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With("component", component)}
}

// WithContext adds the request ID carried by ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return l.WithRequestID(requestID)
	}
	return l
}

// LogRequest logs details about an HTTP request
func (l *Logger) LogRequest(method, path string, status int, latency time.Duration) {
	l.Info("request completed",
		"method", method,
		"path", path,
		"status", status,
		"latency_ms", latency.Milliseconds(),
	)
}

type requestIDKey struct{}

// ContextWithRequestID stores a request ID for WithContext
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
