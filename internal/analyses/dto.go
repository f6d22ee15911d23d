package analyses

import "time"

// ClauseResponse is the outward-facing representation of one flagged clause.
type ClauseResponse struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	Risk       string `json:"risk"`
	Suggestion string `json:"suggestion"`
}

// AnalysisResponse is the outward-facing representation of an analysis.
type AnalysisResponse struct {
	AnalysisID      string           `json:"analysisId"`
	DocumentID      string           `json:"documentId,omitempty"`
	DocumentType    string           `json:"documentType"`
	Summary         string           `json:"summary"`
	OverallRisk     string           `json:"overallRisk"`
	RiskScore       int              `json:"riskScore"`
	RiskDrivers     []string         `json:"riskDrivers"`
	Clauses         []ClauseResponse `json:"clauses"`
	HighlightedText string           `json:"highlightedText,omitempty"`
	ExtractionPath  string           `json:"extractionPath"`
	Degraded        bool             `json:"degraded"`
	DegradedReason  string           `json:"degradedReason,omitempty"`
	ReportAvailable bool             `json:"reportAvailable"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// AnalysisSummaryResponse is the listing representation, without the
// highlighted text payload.
type AnalysisSummaryResponse struct {
	AnalysisID   string    `json:"analysisId"`
	DocumentID   string    `json:"documentId,omitempty"`
	DocumentType string    `json:"documentType"`
	Summary      string    `json:"summary"`
	OverallRisk  string    `json:"overallRisk"`
	RiskScore    int       `json:"riskScore"`
	Degraded     bool      `json:"degraded"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(a Analysis) AnalysisResponse {
	clauses := make([]ClauseResponse, 0, len(a.Result.Clauses))
	for _, clause := range a.Result.Clauses {
		clauses = append(clauses, ClauseResponse{
			Title:      clause.Title,
			Text:       clause.Text,
			Risk:       string(clause.Risk),
			Suggestion: clause.Suggestion,
		})
	}
	drivers := a.Result.RiskDrivers
	if drivers == nil {
		drivers = []string{}
	}
	return AnalysisResponse{
		AnalysisID:      a.ID,
		DocumentID:      a.DocumentID,
		DocumentType:    a.Result.DocumentType,
		Summary:         a.Result.Summary,
		OverallRisk:     string(a.Result.OverallRisk),
		RiskScore:       a.RiskScore,
		RiskDrivers:     drivers,
		Clauses:         clauses,
		HighlightedText: a.HighlightedText,
		ExtractionPath:  a.ExtractionPath,
		Degraded:        a.Degraded,
		DegradedReason:  a.DegradedReason,
		ReportAvailable: a.ReportKey != "",
		CreatedAt:       a.CreatedAt,
	}
}

func toSummaryResponse(a Analysis) AnalysisSummaryResponse {
	return AnalysisSummaryResponse{
		AnalysisID:   a.ID,
		DocumentID:   a.DocumentID,
		DocumentType: a.Result.DocumentType,
		Summary:      a.Result.Summary,
		OverallRisk:  string(a.Result.OverallRisk),
		RiskScore:    a.RiskScore,
		Degraded:     a.Degraded,
		CreatedAt:    a.CreatedAt,
	}
}
