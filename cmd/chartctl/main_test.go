package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (stdout, stderr string, code int, err error) {
	t.Helper()

	code = -1
	prev := cli.OsExiter
	cli.OsExiter = func(c int) { code = c }
	t.Cleanup(func() { cli.OsExiter = prev })

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"chartctl"}, args...))
	return out.String(), errOut.String(), code, err
}

func statsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/cumulative_stats.json", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPaletteCommand(t *testing.T) {
	out, _, _, err := runApp(t, "palette")
	require.NoError(t, err)
	assert.Contains(t, out, "palette:              light")
	assert.Contains(t, out, "completed border:     rgba(75, 192, 192, 1.00)")
	assert.Contains(t, out, "backdrop:             rgba(255, 255, 255, 1.00)")

	out, _, _, err = runApp(t, "palette", "--dark")
	require.NoError(t, err)
	assert.Contains(t, out, "palette:              dark")
	assert.Contains(t, out, "text:                 rgba(224, 224, 224, 1.00)")
}

func TestRenderCommand(t *testing.T) {
	srv := statsServer(t, http.StatusOK, `[
		{"commit_date": "2024-01-01", "completed": 1, "total": 3},
		{"commit_date": "2024-06-01", "completed": 2, "total": 4}
	]`)
	outFile := filepath.Join(t.TempDir(), "chart.svg")

	out, _, _, err := runApp(t, "render", "--url", srv.URL, "--out", outFile, "--format", "svg", "--dark")
	require.NoError(t, err)
	assert.Contains(t, out, "image/svg+xml")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<svg"))
}

func TestRenderCommandFetchFailure(t *testing.T) {
	srv := statsServer(t, http.StatusInternalServerError, "oops")
	outFile := filepath.Join(t.TempDir(), "chart.png")

	_, stderr, code, err := runApp(t, "render", "--url", srv.URL, "--out", outFile)
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Could not load historical data. Error: ")
	assert.Contains(t, stderr, "Internal Server Error")

	_, statErr := os.Stat(outFile)
	assert.True(t, os.IsNotExist(statErr), "no file is written on failure")
}

func TestRenderCommandBadFormat(t *testing.T) {
	_, stderr, code, err := runApp(t, "render", "--url", "http://localhost", "--out", "x", "--format", "gif")
	require.Error(t, err)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown format "gif"`)
}
