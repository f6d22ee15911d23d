package documents

import (
	"context"
	"fmt"
)

// Service contains business logic for document history.
type Service struct {
	Repo DocumentsRepo
}

// Get returns a document by ID scoped to its owner.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userId, documentID)
}

// List returns a user's documents per opts. Unknown sort orders and
// risk filters are rejected rather than silently ignored.
func (s *Service) List(ctx context.Context, userId string, opts ListOptions) ([]Document, error) {
	switch opts.SortBy {
	case "", SortNewest, SortOldest, SortHighRisk, SortLowRisk:
	default:
		return nil, fmt.Errorf("%w: unknown sort_by %q", ErrInvalidInput, opts.SortBy)
	}
	switch opts.RiskFilter {
	case "", "high", "medium", "low":
	default:
		return nil, fmt.Errorf("%w: unknown risk_filter %q", ErrInvalidInput, opts.RiskFilter)
	}
	return s.Repo.ListByUser(ctx, userId, opts)
}

// Delete removes a document from the user's history. The stored file is
// retained; only the record is hidden.
func (s *Service) Delete(ctx context.Context, userId, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, userId, documentID)
}
