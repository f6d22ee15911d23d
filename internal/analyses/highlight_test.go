package analyses

import (
	"strings"
	"testing"
)

func TestHighlightWrapsClauseText(t *testing.T) {
	text := "The Tenant shall pay rent on the first of each month."
	clauses := []Clause{
		{Text: "Tenant shall pay rent", Risk: RiskHigh},
	}

	got := Highlight(text, clauses)
	want := `The <mark class="risk-high">Tenant shall pay rent</mark> on the first of each month.`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHighlightLongestClauseWinsOverSubstring(t *testing.T) {
	text := "The Tenant shall pay rent promptly. Late rent incurs a fee on rent owed."
	clauses := []Clause{
		{Text: "rent incurs a fee", Risk: RiskMedium},
		{Text: "Tenant shall pay rent promptly", Risk: RiskHigh},
	}

	got := Highlight(text, clauses)
	if !strings.Contains(got, `<mark class="risk-high">Tenant shall pay rent promptly</mark>`) {
		t.Errorf("long clause not wrapped: %q", got)
	}
	if !strings.Contains(got, `<mark class="risk-medium">rent incurs a fee</mark>`) {
		t.Errorf("short clause not wrapped: %q", got)
	}
}

func TestHighlightFuzzyWhitespaceMatch(t *testing.T) {
	text := "Tenant agrees to pay   rent\npromptly every month without exception."
	clauses := []Clause{
		{Text: "pay rent promptly", Risk: RiskMedium},
	}

	got := Highlight(text, clauses)
	if !strings.Contains(got, `<mark class="risk-medium">pay   rent`+"\n"+`promptly</mark>`) {
		t.Errorf("fuzzy match failed: %q", got)
	}
}

func TestHighlightCaseInsensitiveFuzzyMatch(t *testing.T) {
	text := "TENANT SHALL INDEMNIFY THE LANDLORD against all claims."
	clauses := []Clause{
		{Text: "Tenant shall indemnify the landlord", Risk: RiskHigh},
	}

	got := Highlight(text, clauses)
	if !strings.Contains(got, `<mark class="risk-high">TENANT SHALL INDEMNIFY THE LANDLORD</mark>`) {
		t.Errorf("case-insensitive match failed: %q", got)
	}
}

func TestHighlightParaphrasedClauseOmitted(t *testing.T) {
	text := "The deposit is refundable at the end of the tenancy."
	clauses := []Clause{
		{Text: "the security deposit will be returned after move-out", Risk: RiskLow},
	}

	got := Highlight(text, clauses)
	if got != text {
		t.Errorf("paraphrased clause should not be highlighted: %q", got)
	}
}

func TestHighlightFirstOccurrenceOnly(t *testing.T) {
	text := "Payment is due immediately. Payment is due immediately. That repeats."
	clauses := []Clause{
		{Text: "Payment is due immediately", Risk: RiskMedium},
	}

	got := Highlight(text, clauses)
	if n := strings.Count(got, "<mark"); n != 1 {
		t.Errorf("marks = %d, want 1: %q", n, got)
	}
	if !strings.HasPrefix(got, `<mark class="risk-medium">Payment is due immediately</mark>. Payment`) {
		t.Errorf("wrong occurrence wrapped: %q", got)
	}
}

func TestHighlightShortClauseSkipped(t *testing.T) {
	text := "All rent is due monthly."
	clauses := []Clause{
		{Text: "rent", Risk: RiskHigh},
	}

	if got := Highlight(text, clauses); got != text {
		t.Errorf("short clause should be skipped: %q", got)
	}
}

func TestHighlightOverlappingClauseDropped(t *testing.T) {
	text := "The Tenant shall pay rent promptly each month."
	clauses := []Clause{
		{Text: "Tenant shall pay rent promptly each month", Risk: RiskHigh},
		{Text: "shall pay rent promptly", Risk: RiskLow},
	}

	got := Highlight(text, clauses)
	if n := strings.Count(got, "<mark"); n != 1 {
		t.Errorf("marks = %d, want 1: %q", n, got)
	}
	if !strings.Contains(got, `class="risk-high"`) {
		t.Errorf("surviving span should be the longer clause: %q", got)
	}
}

func TestHighlightNoClauses(t *testing.T) {
	text := "Nothing to see here, just prose."
	if got := Highlight(text, nil); got != text {
		t.Errorf("got %q, want unchanged text", got)
	}
}

func TestHighlightInvalidRiskNormalized(t *testing.T) {
	text := "The Tenant waives all rights to dispute charges."
	clauses := []Clause{
		{Text: "waives all rights to dispute", Risk: "critical"},
	}

	got := Highlight(text, clauses)
	if !strings.Contains(got, `class="risk-medium"`) {
		t.Errorf("invalid risk should normalize to medium: %q", got)
	}
}
