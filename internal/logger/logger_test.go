package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line is not JSON: %s", line)
		entries = append(entries, e)
	}
	return entries
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  int
	}{
		{"debug passes everything", DEBUG, 4},
		{"info drops debug", INFO, 3},
		{"warn drops debug and info", WARN, 2},
		{"error keeps errors only", ERROR, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: tt.level, Format: JSONFormat, Output: &buf})

			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e", nil)

			assert.Len(t, decodeLines(t, &buf), tt.want)
		})
	}
}

func TestJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: JSONFormat, Output: &buf, Component: "renderer"})

	l.Error("render failed", errors.New("status 500"), Fields{"surface": "project-cumulative-chart"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "render failed", e.Message)
	assert.Equal(t, "renderer", e.Component)
	assert.Equal(t, "status 500", e.Error)
	assert.Equal(t, "project-cumulative-chart", e.Fields["surface"])
	assert.Contains(t, e.Caller, "logger_test.go:")
}

func TestTextEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: TextFormat, Output: &buf, Component: "theme"})

	l.Info("palette applied", Fields{"dark": true, "handle": "h1"})

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[theme]")
	assert.Contains(t, out, "palette applied")
	assert.Contains(t, out, "fields={dark=true, handle=h1}")
}

func TestComponentSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})
	child := root.WithComponent("server")

	root.SetLevel(ERROR)
	child.Info("dropped")
	child.Error("kept", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "server", entries[0].Component)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: JSONFormat, Output: &buf}).With(Fields{"render_id": "abc"})

	l.Info("fetched", Fields{"rows": 2})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Fields["render_id"])
	assert.Equal(t, float64(2), entries[0].Fields["rows"])
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})
	code := -1
	l.sink.exit = func(c int) { code = c }

	l.Fatal("boom", nil)

	assert.Equal(t, 1, code)
	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestParseLevelAndFormat(t *testing.T) {
	lv, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, DEBUG, lv)

	lv, ok = ParseLevel("Warning")
	assert.True(t, ok)
	assert.Equal(t, WARN, lv)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)

	f, ok := ParseFormat("TEXT")
	assert.True(t, ok)
	assert.Equal(t, TextFormat, f)

	_, ok = ParseFormat("xml")
	assert.False(t, ok)
}

func TestGlobalConfigure(t *testing.T) {
	var buf bytes.Buffer
	original := Global()
	defer SetGlobal(original)

	SetGlobal(New(Config{Level: INFO, Format: JSONFormat, Output: &buf}))
	Configure("warn", "text")

	Info("hidden")
	Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[") // text format
	assert.Contains(t, out, "shown")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func BenchmarkJSONLogging(b *testing.B) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message", Fields{"iteration": i})
	}
}
