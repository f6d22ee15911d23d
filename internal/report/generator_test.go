package report

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"justiplay-backend/internal/analyses"
)

type memorySaver struct {
	objects map[string][]byte
}

func (s *memorySaver) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return int64(len(data)), nil
}

func sampleResult() analyses.AnalysisResult {
	return analyses.AnalysisResult{
		DocumentType: "Lease Agreement",
		Summary:      "A 12-month residential lease with an automatic renewal clause.",
		OverallRisk:  analyses.RiskHigh,
		RiskDrivers:  []string{"Automatic renewal", "Large security deposit"},
		Clauses: []analyses.Clause{
			{
				Title:      "Automatic Renewal",
				Text:       "This lease renews automatically unless cancelled 60 days in advance.",
				Risk:       analyses.RiskHigh,
				Suggestion: "Set a reminder well before the cancellation deadline.",
			},
			{
				Title:      "Security Deposit",
				Text:       "Tenant shall pay a deposit of two months rent.",
				Risk:       analyses.RiskMedium,
				Suggestion: "Document the apartment condition at move-in.",
			},
		},
	}
}

func TestRenderIncludesAnalysisContent(t *testing.T) {
	gen := &Generator{Now: func() time.Time {
		return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	}}

	html, err := gen.Render(sampleResult())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(html)

	for _, want := range []string{
		"Lease Agreement",
		"automatic renewal clause",
		"risk-badge risk-high",
		"risk-badge risk-medium",
		"Automatic Renewal",
		"Set a reminder well before the cancellation deadline.",
		"Generated: 15 Mar 2025, 09:30",
		"IMPORTANT DISCLAIMER",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderEscapesDocumentContent(t *testing.T) {
	gen := NewGenerator(nil)
	result := sampleResult()
	result.Summary = `<script>alert("x")</script>`

	html, err := gen.Render(result)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(html, []byte("<script>")) {
		t.Fatal("summary was not escaped")
	}
}

func TestGenerateStoresUnderKey(t *testing.T) {
	store := &memorySaver{}
	gen := NewGenerator(store)

	if err := gen.Generate(context.Background(), "u1/doc.pdf.report.html", sampleResult()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	stored, ok := store.objects["u1/doc.pdf.report.html"]
	if !ok {
		t.Fatal("report not stored under expected key")
	}
	if !bytes.Contains(stored, []byte("JustiPlay Legal Document Report")) {
		t.Fatal("stored report missing header")
	}
}
