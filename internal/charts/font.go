package charts

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
)

// LoadFont parses a TrueType font file for use as Config.Font. An empty path
// returns nil, which leaves go-chart on its bundled default.
func LoadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseFont(data)
}

// ParseFont parses TrueType font bytes
func ParseFont(data []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}
