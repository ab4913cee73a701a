package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChartOptions are the presentation settings of the chart. Everything not
// set in the YAML file keeps its default.
type ChartOptions struct {
	Title         string  `yaml:"title"`
	XAxisTitle    string  `yaml:"x_axis_title"`
	YAxisTitle    string  `yaml:"y_axis_title"`
	ShowLegend    bool    `yaml:"show_legend"`
	FontFamily    string  `yaml:"font_family"`
	FontPath      string  `yaml:"font_path"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	LogFloor      float64 `yaml:"log_floor"`
	PointRadius   float64 `yaml:"point_radius"`
	IntroMarkdown string  `yaml:"intro_markdown"`
}

// DefaultChartOptions returns the options used when no file is configured
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:       "C++ Module Adoption (Completed vs. Total Projects)",
		XAxisTitle:  "Commit Date",
		YAxisTitle:  "Number of Projects",
		ShowLegend:  true,
		FontFamily:  "Arial, sans-serif",
		Width:       960,
		Height:      480,
		LogFloor:    0.1,
		PointRadius: 3,
		IntroMarkdown: "Cumulative number of projects that **completed** their move to C++20 " +
			"modules, plotted against the **total** number of tracked projects.",
	}
}

// LoadChartOptions reads path over the defaults. An empty path returns the
// defaults unchanged.
func LoadChartOptions(path string) (ChartOptions, error) {
	opts := DefaultChartOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read chart options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse chart options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid chart options %s: %w", path, err)
	}
	return opts, nil
}

// Validate rejects values no backend can draw
func (o ChartOptions) Validate() error {
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("width and height must not be negative")
	}
	if o.LogFloor < 0 {
		return fmt.Errorf("log_floor must not be negative")
	}
	if o.PointRadius < 0 {
		return fmt.Errorf("point_radius must not be negative")
	}
	return nil
}
