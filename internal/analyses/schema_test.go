package analyses

import "testing"

func TestNormalizeRisk(t *testing.T) {
	cases := []struct {
		in   RiskLevel
		want RiskLevel
	}{
		{RiskLow, RiskLow},
		{RiskMedium, RiskMedium},
		{RiskHigh, RiskHigh},
		{"low", RiskMedium},
		{"HIGH", RiskMedium},
		{"Critical", RiskMedium},
		{"", RiskMedium},
	}
	for _, tc := range cases {
		if got := NormalizeRisk(tc.in); got != tc.want {
			t.Errorf("NormalizeRisk(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRewritesEveryRiskField(t *testing.T) {
	result := AnalysisResult{
		OverallRisk: "severe",
		Clauses: []Clause{
			{Title: "A", Risk: "High"},
			{Title: "B", Risk: "unknown"},
			{Title: "C", Risk: "Low"},
		},
	}
	result.Normalize()

	if result.OverallRisk != RiskMedium {
		t.Errorf("overall risk = %q, want Medium", result.OverallRisk)
	}
	want := []RiskLevel{RiskHigh, RiskMedium, RiskLow}
	for i, clause := range result.Clauses {
		if clause.Risk != want[i] {
			t.Errorf("clause %s risk = %q, want %q", clause.Title, clause.Risk, want[i])
		}
	}
}

func TestFallbackResultShape(t *testing.T) {
	result := FallbackResult("Analysis failed")

	if result.DocumentType != "Unknown" {
		t.Errorf("document type = %q", result.DocumentType)
	}
	if result.Summary != "Unable to analyze document. Please try again." {
		t.Errorf("summary = %q", result.Summary)
	}
	if result.OverallRisk != RiskMedium {
		t.Errorf("overall risk = %q", result.OverallRisk)
	}
	if len(result.RiskDrivers) != 1 || result.RiskDrivers[0] != "Analysis failed" {
		t.Errorf("risk drivers = %v", result.RiskDrivers)
	}
	if result.Clauses == nil || len(result.Clauses) != 0 {
		t.Errorf("clauses = %v, want empty non-nil slice", result.Clauses)
	}
}
