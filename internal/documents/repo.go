package documents

import "context"

// Sort orders accepted by ListByUser.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortHighRisk = "high_risk"
	SortLowRisk  = "low_risk"
)

// ListOptions narrows and orders a user's document listing. Search
// matches title and summary case-insensitively. RiskFilter is one of
// the display bands ("high", "medium", "low") or empty for all.
type ListOptions struct {
	SortBy     string
	Search     string
	RiskFilter string
	Limit      int
	Offset     int
}

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, opts ListOptions) ([]Document, error)
	Delete(ctx context.Context, userId, documentID string) error
}
