package analyses

// JSON contract (analyze v1):
// {
//   "document_type": "string",
//   "summary": "string",
//   "overall_risk": "Low | Medium | High",
//   "risk_drivers": ["string", 2-4 items],
//   "clauses": [
//     {
//       "title": "string",
//       "text": "string (verbatim excerpt from the document)",
//       "risk": "Low | Medium | High",
//       "suggestion": "string (educational, not legal advice)"
//     }
//   ] (3-6 items)
// }

// RiskLevel is the closed risk enumeration. Values arriving from the model
// are only trusted after NormalizeRisk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// NormalizeRisk coerces any out-of-set value to Medium. The comparison is
// case-sensitive: "low" is not a valid level and falls back.
func NormalizeRisk(raw RiskLevel) RiskLevel {
	switch raw {
	case RiskLow, RiskMedium, RiskHigh:
		return raw
	default:
		return RiskMedium
	}
}

// Clause is a model-identified excerpt paired with a risk classification and
// an educational note. Read-only after the analyzer produces it.
type Clause struct {
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Risk       RiskLevel `json:"risk"`
	Suggestion string    `json:"suggestion"`
}

// AnalysisResult is the structured analysis of one document.
type AnalysisResult struct {
	DocumentType string    `json:"document_type"`
	Summary      string    `json:"summary"`
	OverallRisk  RiskLevel `json:"overall_risk"`
	RiskDrivers  []string  `json:"risk_drivers"`
	Clauses      []Clause  `json:"clauses"`
}

// Normalize rewrites every risk field independently to a valid level.
func (r *AnalysisResult) Normalize() {
	r.OverallRisk = NormalizeRisk(r.OverallRisk)
	for i := range r.Clauses {
		r.Clauses[i].Risk = NormalizeRisk(r.Clauses[i].Risk)
	}
}

// Outcome is the analyzer's tagged result: either a trustworthy
// AnalysisResult or a degraded default-filled one plus the reason. Result is
// always well-typed and normalized, so downstream stages never branch on
// absence of data.
type Outcome struct {
	Result   AnalysisResult
	Degraded bool
	Reason   string
}

// FallbackResult is the documented degraded shape shared by every analyzer
// failure mode.
func FallbackResult(driver string) AnalysisResult {
	return AnalysisResult{
		DocumentType: "Unknown",
		Summary:      "Unable to analyze document. Please try again.",
		OverallRisk:  RiskMedium,
		RiskDrivers:  []string{driver},
		Clauses:      []Clause{},
	}
}
