package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a LogLevel, defaulting to info.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// AppLogger writes leveled lines to the console and, once file logging is
// enabled, to a size-rotated log file.
type AppLogger struct {
	mu          sync.Mutex
	level       LogLevel
	console     io.Writer
	file        *rotatingFile
	maxFileSize int64
	maxBackups  int
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level       LogLevel
	EnableFile  bool
	Dir         string // log directory, defaults to GetLogDir()
	MaxFileSize int64  // in bytes, default 5MB
	MaxBackups  int    // number of rotated files to keep, default 5
}

const (
	defaultMaxFileSize = 5 * 1024 * 1024 // 5MB
	defaultMaxBackups  = 5
)

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

// NewAppLogger creates a logger writing to console at the info level.
func NewAppLogger(console io.Writer) *AppLogger {
	return &AppLogger{
		level:       LevelInfo,
		console:     console,
		maxFileSize: defaultMaxFileSize,
		maxBackups:  defaultMaxBackups,
	}
}

// GetLogger returns the process-wide logger.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = NewAppLogger(os.Stdout)
	})
	return defaultLogger
}

// InitLogger configures the process-wide logger.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)

	logger.mu.Lock()
	if config.MaxFileSize > 0 {
		logger.maxFileSize = config.MaxFileSize
	}
	if config.MaxBackups > 0 {
		logger.maxBackups = config.MaxBackups
	}
	logger.mu.Unlock()

	if !config.EnableFile {
		return nil
	}
	dir := config.Dir
	if dir == "" {
		dir = GetLogDir()
	}
	return logger.EnableFileLogging(dir)
}

// GetLogDir returns the log directory path.
func GetLogDir() string {
	configDir, err := GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "logs")
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level.
func (l *AppLogger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the console destination. A nil writer silences the console.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// EnableFileLogging also writes every line to LogFileName inside logDir.
// The file is rotated when it would grow past the configured size.
func (l *AppLogger) EnableFileLogging(logDir string) error {
	l.mu.Lock()
	maxSize, maxBackups := l.maxFileSize, l.maxBackups
	l.mu.Unlock()

	file, err := openRotatingFile(logDir, maxSize, maxBackups)
	if err != nil {
		return err
	}

	l.mu.Lock()
	previous := l.file
	l.file = file
	l.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// LogPath returns the active log file, or "" when file logging is off.
func (l *AppLogger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return ""
	}
	return l.file.path
}

// Close stops file logging. Should be called on application shutdown.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	file := l.file
	l.file = nil
	l.mu.Unlock()

	if file == nil {
		return nil
	}
	return file.Close()
}

// log formats one line. skip is the number of frames between the caller
// of interest and log.
func (l *AppLogger) log(level LogLevel, skip int, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	caller := "???"
	if _, file, line, ok := runtime.Caller(skip); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}
	line := fmt.Sprintf("%s [%s] %s: %s\n", time.Now().Format("2006/01/02 15:04:05"), level, caller, text)

	if l.console != nil {
		io.WriteString(l.console, line)
	}
	if l.file != nil {
		if _, err := io.WriteString(l.file, line); err != nil && l.console != nil {
			fmt.Fprintf(l.console, "log file write failed: %v\n", err)
		}
	}
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, 2, msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, 2, msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, 2, msg, args...)
}

// Error logs an error message.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, 2, msg, args...)
}

// Shorthand functions for default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().log(LevelDebug, 2, msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().log(LevelInfo, 2, msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().log(LevelWarn, 2, msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().log(LevelError, 2, msg, args...)
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
