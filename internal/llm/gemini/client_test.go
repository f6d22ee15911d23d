package gemini

import (
	"strings"
	"testing"

	"justiplay-backend/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "gemini-2.0-flash-exp"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	if _, err := NewClient("key", "  "); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestNewClientTrimsInputs(t *testing.T) {
	c, err := NewClient(" key ", " gemini-2.0-flash-exp ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.apiKey != "key" || c.model != "gemini-2.0-flash-exp" {
		t.Fatalf("expected trimmed fields, got %q %q", c.apiKey, c.model)
	}
}

func TestAnalyzePromptShapesContract(t *testing.T) {
	// The prompt is the provider-side half of the schema contract; keep the
	// required fields anchored here so an edit can't silently break parsing.
	prompt := llm.AnalyzePrompt()
	for _, field := range []string{"document_type", "summary", "overall_risk", "risk_drivers", "clauses"} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("prompt missing required field %q", field)
		}
	}
	if !strings.Contains(prompt, "'Low', 'Medium', or 'High'") {
		t.Fatal("prompt missing the risk enumeration")
	}
}
