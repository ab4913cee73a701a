package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Run("build version wins", func(t *testing.T) {
		old := Version
		Version = "9.9.9"
		defer func() { Version = old }()
		t.Setenv("APP_VERSION", "1.2.3")

		if got := GetVersion(); got != "9.9.9" {
			t.Errorf("GetVersion() = %q, want %q", got, "9.9.9")
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv("APP_VERSION", "2.0.0-beta.1")
		if got := GetVersion(); got != "2.0.0-beta.1" {
			t.Errorf("GetVersion() = %q, want %q", got, "2.0.0-beta.1")
		}
	})

	t.Run("VERSION file", func(t *testing.T) {
		t.Setenv("APP_VERSION", "")
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.4.0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		chdir(t, dir)

		if got := GetVersion(); got != "1.4.0" {
			t.Errorf("GetVersion() = %q, want %q", got, "1.4.0")
		}
	})

	t.Run("fallback", func(t *testing.T) {
		t.Setenv("APP_VERSION", "")
		chdir(t, filepath.Join(t.TempDir(), "a"))

		if got := GetVersion(); got != "0.1.0" {
			t.Errorf("GetVersion() = %q, want %q", got, "0.1.0")
		}
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}
