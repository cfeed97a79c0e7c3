package github

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for the users API.
type ErrorCategory string

const (
	// ErrorTimeout indicates the API took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates a malformed or empty payload
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates a rejected token
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the API is unavailable
	ErrorOutage ErrorCategory = "outage"

	// ErrorNotFound indicates the user does not exist upstream
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates the caller ran out of quota
	ErrorRateLimited ErrorCategory = "rate_limited"
)

// ClientError wraps users API failures with a normalized category.
type ClientError struct {
	Category   ErrorCategory
	Login      string
	Message    string
	Underlying error
}

func (e *ClientError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("users api [%s] %s: %s: %v", e.Category, e.Login, e.Message, e.Underlying)
	}
	return fmt.Sprintf("users api [%s] %s: %s", e.Category, e.Login, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Underlying
}

// FailureCategory exposes the category to callers that classify errors by
// interface rather than by type.
func (e *ClientError) FailureCategory() string {
	return string(e.Category)
}

func newClientError(category ErrorCategory, login, message string, underlying error) *ClientError {
	return &ClientError{
		Category:   category,
		Login:      login,
		Message:    message,
		Underlying: underlying,
	}
}

// GetCategory extracts the category from an error, or "" when err is not a
// ClientError.
func GetCategory(err error) ErrorCategory {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}
