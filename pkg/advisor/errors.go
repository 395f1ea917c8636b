package advisor

import "errors"

var (
	// ErrEmptySelection rejects routine generation before any network call.
	ErrEmptySelection = errors.New("no products selected")

	// ErrEmptyInput marks a blank follow-up question; callers ignore it silently.
	ErrEmptyInput = errors.New("empty question")
)
