package api

import (
	"errors"
	"fmt"
	"net/http"

	github "github.com/google/go-github/v84/github"
)

// APIError is a structured error returned by the GitHub API. These are
// recoverable: callers surface the message and let the user retry.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %s (status %d)", e.Message, e.StatusCode)
}

// ValidationError is a local argument error detected before any network
// call. It is surfaced inline, never as the global error banner.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// classify maps go-github error shapes onto APIError. Anything without a
// recognizable API-error shape is returned as-is so it propagates to the
// top-level fault boundary instead of being absorbed.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) {
		status := 0
		if er.Response != nil {
			status = er.Response.StatusCode
		}
		return &APIError{StatusCode: status, Message: er.Message}
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &APIError{StatusCode: http.StatusForbidden, Message: rle.Message}
	}

	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		return &APIError{StatusCode: http.StatusForbidden, Message: arle.Message}
	}

	return err
}

// AsAPIError unwraps err to an APIError if it has one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsValidationError unwraps err to a ValidationError if it has one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err is an API error with a 404 status. A 404
// on an account-metadata lookup means the account has zero public
// repositories, not a hard failure.
func IsNotFound(err error) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.StatusCode == http.StatusNotFound
}
