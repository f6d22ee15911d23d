package analyses

import "errors"

var (
	// ErrEmptyUpload rejects zero-byte uploads before any external call.
	ErrEmptyUpload = errors.New("uploaded file is empty")
	// ErrUnreadableDocument covers OCR degradation and sub-threshold text.
	ErrUnreadableDocument = errors.New("could not extract meaningful text from document")
	// ErrAnalysisFailed marks a total analysis failure (degraded result with
	// no clauses); partial degradation is not an error.
	ErrAnalysisFailed = errors.New("analysis failed")

	ErrNotFound     = errors.New("analysis not found")
	ErrInvalidInput = errors.New("invalid input")
)
