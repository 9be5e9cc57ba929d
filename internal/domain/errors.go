package domain

import (
	"errors"
	"fmt"
)

// ErrNoData reports a reference-data lookup miss (region, site or department).
var ErrNoData = errors.New("no data found")

// ErrEmptyQuery is returned when a place search is attempted without a query.
var ErrEmptyQuery = errors.New("empty search query")

// ExternalCallError wraps a failed outbound call (place search, asset fetch).
// These failures are surfaced to the user and never retried.
type ExternalCallError struct {
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// IsExternalCallFailure reports whether err wraps an *ExternalCallError.
func IsExternalCallFailure(err error) bool {
	var ext *ExternalCallError
	return errors.As(err, &ext)
}
