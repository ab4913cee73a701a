package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/config"
	"adoptionchart/internal/fetchers"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/renderer"
	"adoptionchart/internal/surface"
	"adoptionchart/internal/theme"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "chartctl",
		Usage:   "render the module adoption chart without running the service",
		Version: config.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(c.String("log-level"), "text")
			return nil
		},
		Commands: []*cli.Command{
			renderCommand(),
			paletteCommand(),
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "fetch the dataset once and write the chart to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "base URL serving /data/cumulative_stats.json", Required: true},
			&cli.StringFlag{Name: "out", Usage: "output file", Required: true},
			&cli.StringFlag{Name: "format", Usage: "png, svg or html", Value: "png"},
			&cli.BoolFlag{Name: "dark", Usage: "use the dark palette"},
			&cli.StringFlag{Name: "options", Usage: "chart options YAML file"},
			&cli.DurationFlag{Name: "timeout", Usage: "fetch timeout"},
		},
		Action: func(c *cli.Context) error {
			backend, err := backendFor(c.String("format"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			opts, err := config.LoadChartOptions(c.String("options"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			font, err := charts.LoadFont(opts.FontPath)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			doc := surface.NewDocument([]string{surface.DefaultSurfaceID})
			rend := renderer.New(renderer.Deps{
				Fetcher: fetchers.NewStatsFetcher(c.String("url"), fetchers.Options{Timeout: c.Duration("timeout")}),
				Library: charts.NewLibrary(backend),
				Doc:     doc,
				Theme:   theme.NewSource(c.Bool("dark")),
			}, renderer.OptionsFromConfig(opts, font))
			defer rend.Close()

			canvas, _ := doc.Lookup(surface.DefaultSurfaceID)
			if _, err := rend.Render(c.Context, surface.DefaultSurfaceID); err != nil {
				return cli.Exit(canvas.Snapshot().Error, 1)
			}

			snap := canvas.Snapshot()
			if err := os.WriteFile(c.String("out"), snap.Frame.Data, 0644); err != nil {
				return cli.Exit(fmt.Sprintf("failed to write %s: %v", c.String("out"), err), 1)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%s, %d bytes)\n", c.String("out"), snap.Frame.ContentType, len(snap.Frame.Data))
			return nil
		},
	}
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:  "palette",
		Usage: "print the resolved palette colors",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dark", Usage: "resolve the dark palette"},
		},
		Action: func(c *cli.Context) error {
			printPalette(c.App.Writer, theme.ResolvePalette(c.Bool("dark")))
			return nil
		},
	}
}

// printPalette lists each color with a swatch. Swatches degrade to blanks
// when w is not a color terminal.
func printPalette(w io.Writer, p theme.Palette) {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)

	fmt.Fprintf(w, "%-22s%s\n", "palette:", heading.Render(p.Name()))
	for _, entry := range []struct {
		label string
		color drawing.Color
	}{
		{"text", p.TextColor},
		{"grid", p.GridColor},
		{"completed border", p.CompletedBorder},
		{"completed background", p.CompletedBackground},
		{"total border", p.TotalBorder},
		{"total background", p.TotalBackground},
		{"backdrop", p.Backdrop},
	} {
		swatch := r.NewStyle().Background(lipgloss.Color(charts.Hex(entry.color))).Render("    ")
		fmt.Fprintf(w, "%-22s%s %s\n", entry.label+":", charts.CSS(entry.color), swatch)
	}
}

func backendFor(format string) (charts.Backend, error) {
	switch format {
	case "png":
		return charts.NewPNGBackend(), nil
	case "svg":
		return charts.NewSVGBackend(), nil
	case "html":
		return charts.NewEChartsBackend(""), nil
	default:
		return nil, fmt.Errorf("unknown format %q: want png, svg or html", format)
	}
}
