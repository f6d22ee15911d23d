package analyses

import "time"

// Analysis is one completed pipeline run for a document.
type Analysis struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	DocumentID      string         `json:"documentId"`
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	Result          AnalysisResult `json:"result"`
	Degraded        bool           `json:"degraded"`
	DegradedReason  string         `json:"degradedReason,omitempty"`
	RiskScore       int            `json:"riskScore"`
	ExtractionPath  string         `json:"extractionPath"`
	HighlightedText string         `json:"highlightedText,omitempty"`
	ReportKey       string         `json:"reportKey,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}
