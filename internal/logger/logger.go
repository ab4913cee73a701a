package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log entry
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the level name used in log output
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Format selects how entries are encoded
type Format int

const (
	JSONFormat Format = iota
	TextFormat
)

// Fields carries structured key/value context for one entry
type Fields map[string]interface{}

// Entry is a single structured log record
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Caller    string `json:"caller,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sink is shared between a logger and the component loggers derived from it,
// so SetLevel/SetFormat on the root affects every component.
type sink struct {
	mu     sync.RWMutex
	level  Level
	format Format
	out    io.Writer
	exit   func(int)
}

// Logger writes structured entries for one component
type Logger struct {
	sink      *sink
	component string
	fields    Fields
}

// Config holds logger configuration
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer
	Component string
}

// New creates a logger from the given configuration
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Logger{
		sink: &sink{
			level:  cfg.Level,
			format: cfg.Format,
			out:    cfg.Output,
			exit:   os.Exit,
		},
		component: cfg.Component,
	}
}

// NewDefault creates an INFO/JSON logger on stdout
func NewDefault() *Logger {
	return New(Config{Level: INFO, Format: JSONFormat, Output: os.Stdout})
}

// WithComponent returns a logger tagged with the component name that shares
// this logger's output and level.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{sink: l.sink, component: component, fields: l.fields}
}

// With returns a logger that adds the given fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, component: l.component, fields: merged}
}

// SetLevel sets the minimum level written
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// SetFormat sets the output encoding
func (l *Logger) SetFormat(format Format) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.format = format
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return level >= l.sink.level
}

func (l *Logger) write(level Level, message string, err error, extra []Fields) {
	if !l.Enabled(level) {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Caller:    caller(3),
	}
	if len(l.fields) > 0 || len(extra) > 0 {
		entry.Fields = make(Fields, len(l.fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range extra {
			for k, v := range f {
				entry.Fields[k] = v
			}
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}

	l.sink.mu.Lock()
	var line string
	if l.sink.format == JSONFormat {
		b, _ := json.Marshal(entry)
		line = string(b) + "\n"
	} else {
		line = formatText(entry)
	}
	l.sink.out.Write([]byte(line))
	exit := l.sink.exit
	l.sink.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

// caller returns "file.go:line" for the frame skip levels above write
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func formatText(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Timestamp, e.Level)
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Fields[k]))
		}
		fmt.Fprintf(&b, " fields={%s}", strings.Join(parts, ", "))
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%s", e.Error)
	}
	if e.Caller != "" {
		fmt.Fprintf(&b, " (%s)", e.Caller)
	}
	b.WriteString("\n")
	return b.String()
}

// Debug logs at DEBUG
func (l *Logger) Debug(message string, fields ...Fields) {
	l.write(DEBUG, message, nil, fields)
}

// Info logs at INFO
func (l *Logger) Info(message string, fields ...Fields) {
	l.write(INFO, message, nil, fields)
}

// Warn logs at WARN
func (l *Logger) Warn(message string, fields ...Fields) {
	l.write(WARN, message, nil, fields)
}

// Error logs at ERROR with the error attached
func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.write(ERROR, message, err, fields)
}

// Fatal logs at FATAL and exits the process
func (l *Logger) Fatal(message string, err error, fields ...Fields) {
	l.write(FATAL, message, err, fields)
}

// Infof logs a formatted INFO message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted WARN message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(WARN, fmt.Sprintf(format, args...), nil, nil)
}

// Debugf logs a formatted DEBUG message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(DEBUG, fmt.Sprintf(format, args...), nil, nil)
}
