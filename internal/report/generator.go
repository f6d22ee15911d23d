// Package report renders analysis results into a self-contained HTML
// report and stores it next to the analyzed document.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"justiplay-backend/internal/analyses"
	"justiplay-backend/internal/shared/telemetry"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTmpl = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"riskClass": func(risk analyses.RiskLevel) string {
				return strings.ToLower(string(risk))
			},
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// ObjectSaver stores a rendered report under an explicit storage key.
type ObjectSaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

// Generator renders and stores HTML reports.
type Generator struct {
	Store ObjectSaver
	Now   func() time.Time
}

// NewGenerator constructs a Generator backed by the given store.
func NewGenerator(store ObjectSaver) *Generator {
	return &Generator{Store: store, Now: time.Now}
}

type templateData struct {
	Result    analyses.AnalysisResult
	Timestamp string
}

// Render produces the report HTML for an analysis result.
func (g *Generator) Render(result analyses.AnalysisResult) ([]byte, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	data := templateData{
		Result:    result,
		Timestamp: now().Format("02 Jan 2006, 15:04"),
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the report and stores it under storageKey.
func (g *Generator) Generate(ctx context.Context, storageKey string, result analyses.AnalysisResult) error {
	if g.Store == nil {
		return fmt.Errorf("report store is not configured")
	}
	html, err := g.Render(result)
	if err != nil {
		return err
	}
	size, err := g.Store.SaveWithKey(ctx, storageKey, "text/html; charset=utf-8", bytes.NewReader(html))
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	telemetry.Info("report.generated", map[string]any{
		"storage_key": storageKey,
		"size_bytes":  size,
	})
	return nil
}
