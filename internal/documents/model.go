package documents

import "time"

// Risk score display thresholds. A document's score maps to a display
// band: high is 70 and above, low is below 40, medium is everything
// between.
const (
	RiskScoreHighMin   = 70
	RiskScoreMediumMin = 40
)

// Document is the dashboard-facing record of an analyzed upload. Title,
// Summary, RiskFlags, and RiskScore are derived from the analysis that
// produced it.
type Document struct {
	ID         string
	UserID     string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	Title      string
	Summary    string
	RiskFlags  []string
	RiskScore  int
	UploadedAt time.Time
}

// RiskBand returns the display band for a risk score.
func RiskBand(score int) string {
	switch {
	case score >= RiskScoreHighMin:
		return "high"
	case score >= RiskScoreMediumMin:
		return "medium"
	default:
		return "low"
	}
}
