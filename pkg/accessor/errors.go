package accessor

import "errors"

// Operation-class errors. Their messages are the user-facing text recorded
// in State.Err.
var (
	ErrFetchFailed  = errors.New("Failed to fetch data")
	ErrAddFailed    = errors.New("Failed to add document")
	ErrUpdateFailed = errors.New("Failed to update document")
	ErrDeleteFailed = errors.New("Failed to delete document")
	ErrSearchFailed = errors.New("Failed to search documents")
)
