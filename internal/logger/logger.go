package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/weekmenu/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// verbosity is the configured level name, kept so callers can branch on it
	verbosity = constants.LogLevelError
)

// Config holds logger configuration
type Config struct {
	Level     string
	ConfigDir string
}

// ParseLevel maps a verbosity name to a log level. "none" maps to a level above
// fatal so nothing but fatal exits is ever written.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case constants.LogLevelDebug:
		return log.DebugLevel, nil
	case constants.LogLevelInfo:
		return log.InfoLevel, nil
	case constants.LogLevelWarn:
		return log.WarnLevel, nil
	case "", constants.LogLevelError:
		return log.ErrorLevel, nil
	case constants.LogLevelNone:
		return log.FatalLevel + 1, nil
	default:
		return log.ErrorLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	debug := level == log.DebugLevel

	// Debug mode mirrors the log file to stderr
	var writer io.Writer = fileWriter
	if debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	verbosity = strings.ToLower(strings.TrimSpace(cfg.Level))
	if verbosity == "" {
		verbosity = constants.LogLevelError
	}

	return nil
}

// Verbosity returns the configured verbosity name
func Verbosity() string {
	return verbosity
}

// SetVerbosity overrides the verbosity name without touching the writer
func SetVerbosity(name string) {
	verbosity = strings.ToLower(strings.TrimSpace(name))
	if Logger != nil {
		if level, err := ParseLevel(name); err == nil {
			Logger.SetLevel(level)
		}
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
