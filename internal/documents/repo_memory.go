package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userId -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create records a document for a user.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByUser returns a user's documents filtered and ordered per opts.
func (r *MemoryRepo) ListByUser(ctx context.Context, userId string, opts ListOptions) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	userDocs := r.data[userId]
	r.mu.RUnlock()

	docs := make([]Document, 0, len(userDocs))
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, doc := range userDocs {
		if opts.RiskFilter != "" && RiskBand(doc.RiskScore) != opts.RiskFilter {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(doc.Title), search) &&
			!strings.Contains(strings.ToLower(doc.Summary), search) {
			continue
		}
		docs = append(docs, doc)
	}

	sortDocuments(docs, opts.SortBy)

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(docs) {
		return []Document{}, nil
	}
	end := len(docs)
	if opts.Limit > 0 && offset+opts.Limit < end {
		end = offset + opts.Limit
	}
	return docs[offset:end], nil
}

// Delete removes a document for a user.
func (r *MemoryRepo) Delete(ctx context.Context, userId, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			r.data[userId] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sortDocuments(docs []Document, sortBy string) {
	switch sortBy {
	case SortOldest:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].UploadedAt.Before(docs[j].UploadedAt)
		})
	case SortHighRisk:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].RiskScore > docs[j].RiskScore
		})
	case SortLowRisk:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].RiskScore < docs[j].RiskScore
		})
	default:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		})
	}
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
