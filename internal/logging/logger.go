// Package logging provides structured logging infrastructure for resgate.
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level aliases for zap levels.
const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger wraps a sugared zap logger with resgate-specific configuration.
type Logger struct {
	*zap.SugaredLogger
	file     *os.File
	filePath string
}

// Config contains logger configuration options.
type Config struct {
	Level   zapcore.Level
	Output  io.Writer
	Enabled bool
	JSON    bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelWarn,
		Output:  os.Stderr,
		Enabled: true,
	}
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		return &Logger{SugaredLogger: zap.NewNop().Sugar()}
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(output), cfg.Level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// WithPrefix returns a new logger with the given name appended.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		SugaredLogger: l.Named(prefix),
		file:          l.file,
		filePath:      l.filePath,
	}
}

// Global logger instance.
var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Global returns the global logger instance.
func Global() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = New(DefaultConfig())
	}
	return globalLogger
}

// SetGlobal sets the global logger instance.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Init initializes the global logger with the given level and output.
func Init(level zapcore.Level, w io.Writer) {
	SetGlobal(New(Config{
		Level:   level,
		Output:  w,
		Enabled: true,
	}))
}

// Package-level convenience functions that delegate to the global logger.
// Arguments are alternating key-value pairs.

// Debug logs a debug message to the global logger.
func Debug(msg string, kv ...any) {
	Global().Debugw(msg, kv...)
}

// Info logs an informational message to the global logger.
func Info(msg string, kv ...any) {
	Global().Infow(msg, kv...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, kv ...any) {
	Global().Warnw(msg, kv...)
}

// Error logs an error message to the global logger.
func Error(msg string, kv ...any) {
	Global().Errorw(msg, kv...)
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{SugaredLogger: l.Sugar()}
}
