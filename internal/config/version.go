package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Version is set at build time with -ldflags "-X adoptionchart/internal/config.Version=..."
var Version = ""

// GetVersion returns the build version, then APP_VERSION, then the VERSION
// file in the working directory or its parent.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}
	return getBaseVersion()
}

// getBaseVersion reads the base version from a VERSION file
func getBaseVersion() string {
	for _, p := range []string{"VERSION", filepath.Join("..", "VERSION")} {
		if content, err := os.ReadFile(p); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return "0.1.0"
}
