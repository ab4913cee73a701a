package server

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// pageData is what the host page template renders
type pageData struct {
	Title     string
	Intro     template.HTML
	Dark      bool
	SurfaceID string
	Embed     string
	Version   int
	Error     string
	HasFrame  bool
	AppVer    string
	// page colors for the current mode, as #rrggbb
	Backdrop   string
	TextColor  string
	FontFamily string
}

// newMarkdown configures goldmark the same way for every page section
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
}

// renderMarkdown converts src to HTML. Raw HTML in src is escaped.
func renderMarkdown(md goldmark.Markdown, src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: {{.FontFamily}}; margin: 40px; background: {{.Backdrop}}; color: {{.TextColor}}; }
        .container { max-width: 1000px; margin: 0 auto; }
        .chart-container { margin: 20px 0; min-height: 200px; }
        .chart-container img, .chart-container iframe { width: 100%; border: 0; }
        .chart-container iframe { height: 540px; }
        .error { padding: 15px; border-left: 4px solid #ff6384; }
        footer { font-size: 0.8em; opacity: 0.7; }
    </style>
</head>
<body{{if .Dark}} class="dark"{{end}}>
    <div class="container">
        <h1>{{.Title}}</h1>
        {{.Intro}}
        <button id="theme-toggle" type="button">{{if .Dark}}Light mode{{else}}Dark mode{{end}}</button>
        <div class="chart-container" id="{{.SurfaceID}}-container">
        {{- if .Error}}
            <p class="error">{{.Error}}</p>
        {{- else if .HasFrame}}
            {{- if eq .Embed "iframe"}}
            <iframe id="{{.SurfaceID}}" title="{{.Title}}" src="/canvas/{{.SurfaceID}}?v={{.Version}}"></iframe>
            {{- else}}
            <img id="{{.SurfaceID}}" alt="{{.Title}}" src="/canvas/{{.SurfaceID}}?v={{.Version}}">
            {{- end}}
        {{- else}}
            <p>Loading chart...</p>
        {{- end}}
        </div>
        <footer>v{{.AppVer}}</footer>
    </div>
    <script>
        document.getElementById('theme-toggle').addEventListener('click', function () {
            var dark = !document.body.classList.contains('dark');
            fetch('/theme', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({dark: dark})
            }).then(function () { window.location.reload(); });
        });
    </script>
</body>
</html>
`))
