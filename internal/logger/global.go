package logger

import (
	"strings"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewDefault()
)

// Configure applies level and format names (as found in LOG_LEVEL and
// LOG_FORMAT) to the global logger. Unknown names leave the setting unchanged.
func Configure(level, format string) {
	l := Global()
	if lv, ok := ParseLevel(level); ok {
		l.SetLevel(lv)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// ParseLevel parses a level name, case-insensitively
func ParseLevel(level string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses "json" or "text"
func ParseFormat(format string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	default:
		return JSONFormat, false
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobal replaces the process-wide logger
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Component returns a component logger derived from the global logger
func Component(name string) *Logger {
	return Global().WithComponent(name)
}

// Info logs at INFO on the global logger
func Info(message string, fields ...Fields) {
	Global().write(INFO, message, nil, fields)
}

// Warn logs at WARN on the global logger
func Warn(message string, fields ...Fields) {
	Global().write(WARN, message, nil, fields)
}

// Error logs at ERROR on the global logger
func Error(message string, err error, fields ...Fields) {
	Global().write(ERROR, message, err, fields)
}

// Fatal logs at FATAL on the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	Global().write(FATAL, message, err, fields)
}
