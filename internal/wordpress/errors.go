package wordpress

import (
	"fmt"

	"archivist/internal/services"
)

// snippetLimit bounds response bodies quoted in errors.
const snippetLimit = 500

// APIError is a non-success HTTP status from the CMS.
type APIError struct {
	Op          string
	StatusCode  int
	ContentType string
	Snippet     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: http %d (content-type %q): %s", e.Op, e.StatusCode, e.ContentType, e.Snippet)
}

// Unwrap lets callers test for services.ErrRemote.
func (e *APIError) Unwrap() error { return services.ErrRemote }

// ResponseError is a success status whose body could not be decoded.
type ResponseError struct {
	Op          string
	Reason      string
	StatusCode  int
	ContentType string
	Snippet     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s returned %s (status %d, content-type '%s'): %s", e.Op, e.Reason, e.StatusCode, e.ContentType, e.Snippet)
}

func (e *ResponseError) Unwrap() error { return services.ErrRemote }
