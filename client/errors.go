package client

import (
	"fmt"

	errs "github.com/stockyourlot/stocklot-client/internal/errors"
)

// ErrSessionExpired reports that the backend rejected the bearer credential
// with a 401. By the time a caller sees it the session has already been
// cleared and the unauthorized handler has run; treat the in-flight
// operation as abandoned.
var ErrSessionExpired = errs.ErrSessionExpired

// APIError is a non-2xx backend response, carrying the backend's own message
// verbatim when one was parseable.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (%d)", e.StatusCode)
}
