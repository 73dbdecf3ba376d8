package hubspot

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a provider-reported failure: rate limit, not-found,
// validation and so on. The client never retries; callers decide.
type APIError struct {
	StatusCode int
	Category   string `json:"category"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("hubspot: %s (%d %s)", e.Message, e.StatusCode, e.Category)
	}
	return fmt.Sprintf("hubspot: %s (%d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a provider 429.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
