package analyses

import "strings"

const (
	summaryMaxChars = 200
	excerptMaxChars = 160
	maxRiskFlags    = 5

	// Score bands align with the display thresholds: high >= 70,
	// medium 40-69, low < 40.
	scoreBaseLow    = 20
	scoreBaseMedium = 50
	scoreBaseHigh   = 80
)

// RiskScore derives a 0-100 numeric score for persistence and list
// filtering: a base from the overall risk, nudged by clause-level findings.
func RiskScore(r AnalysisResult) int {
	score := scoreBaseMedium
	switch r.OverallRisk {
	case RiskLow:
		score = scoreBaseLow
	case RiskHigh:
		score = scoreBaseHigh
	}

	for _, clause := range r.Clauses {
		switch clause.Risk {
		case RiskHigh:
			score += 5
		case RiskMedium:
			score += 2
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// RiskFlags collects up to five High-risk clause excerpts for the persisted
// document record.
func RiskFlags(r AnalysisResult) []string {
	flags := []string{}
	for _, clause := range r.Clauses {
		if clause.Risk != RiskHigh {
			continue
		}
		excerpt := strings.TrimSpace(clause.Text)
		if excerpt == "" {
			excerpt = strings.TrimSpace(clause.Title)
		}
		if excerpt == "" {
			continue
		}
		flags = append(flags, truncateRunes(excerpt, excerptMaxChars))
		if len(flags) == maxRiskFlags {
			break
		}
	}
	return flags
}

// TruncateSummary bounds the persisted summary copy.
func TruncateSummary(summary string) string {
	return truncateRunes(strings.TrimSpace(summary), summaryMaxChars)
}

// DocumentTitle picks the persisted title: the classified document type,
// falling back to the uploaded file name.
func DocumentTitle(r AnalysisResult, fileName string) string {
	title := strings.TrimSpace(r.DocumentType)
	if title == "" || title == "Unknown" {
		if name := strings.TrimSpace(fileName); name != "" {
			return name
		}
	}
	if title == "" {
		title = "Unknown"
	}
	return title
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
