package edgar

import (
	"errors"
	"fmt"
)

var (
	// ErrTickerNotFound is returned when the ticker is absent from the directory
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrFormNotFound is returned when no recent filing has the requested form type
	ErrFormNotFound = errors.New("form not found")

	// ErrTimeout marks a request that ran past its deadline
	ErrTimeout = errors.New("timeout error")

	// ErrMalformedResponse marks a response whose JSON lacks expected fields
	ErrMalformedResponse = errors.New("malformed response")

	// ErrMissingContentType marks a document response without a Content-Type header
	ErrMissingContentType = errors.New("missing Content-Type header")
)

// UnsupportedContentError is returned when a document is not HTML
type UnsupportedContentError struct {
	ContentType string
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("not supported content: %s", e.ContentType)
}

// StatusError is returned when a JSON endpoint answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("SEC returned status %d for %s", e.StatusCode, e.URL)
}
