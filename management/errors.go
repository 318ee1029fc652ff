package management

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for session construction and request validation.
var (
	ErrMissingProjectID = errors.New("management: project id is required")
	ErrMissingAPIKey    = errors.New("management: api key is required")
	ErrMissingTarget    = errors.New("management: item and language codenames are required")
)

// ValidationError is a single entry of an API validation failure.
type ValidationError struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// APIError is a non-2xx answer from the Management API.
type APIError struct {
	StatusCode       int               `json:"-"`
	RequestID        string            `json:"request_id"`
	ErrorCode        int               `json:"error_code"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "management api: status %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	for _, v := range e.ValidationErrors {
		if v.Path != "" {
			fmt.Fprintf(&b, "; %s: %s", v.Path, v.Message)
		} else {
			fmt.Fprintf(&b, "; %s", v.Message)
		}
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request %s)", e.RequestID)
	}
	return b.String()
}

// IsNotFound reports whether err is an APIError for a missing item or language.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
