package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a validation failure in the request.
	ErrInvalidInput = errors.New("invalid input")
)
