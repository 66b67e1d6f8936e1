package talent

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches APIError values with 401 and 403 statuses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyJobDescription is returned before any request is made.
	ErrEmptyJobDescription = errors.New("job description is empty")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status: %s", e.Status)
	}
	return fmt.Sprintf("bad status: %s: %s", e.Status, e.Body)
}

func (e *APIError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
