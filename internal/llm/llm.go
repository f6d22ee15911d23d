package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts text-generation providers for legal document analysis.
// Implementations return the raw response body; decoding and repair belong
// to the analyses package.
type Client interface {
	AnalyzeDocument(ctx context.Context, documentText string) (json.RawMessage, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// AnalyzeDocument returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeDocument(ctx context.Context, documentText string) (json.RawMessage, error) {
	_ = ctx
	_ = documentText
	return nil, ErrNotConfigured
}
