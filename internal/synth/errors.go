package synth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Kind classifies a synthesis failure for the retry controller.
type Kind string

const (
	// KindQuota means the service rejected the call for rate or quota
	// reasons. Only this kind is retried.
	KindQuota Kind = "QUOTA"

	// KindOther covers auth, network, server and malformed-response failures.
	KindOther Kind = "OTHER"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no API key configured - set GEMINI_API_KEY or GOOGLE_API_KEY")

// Error is a classified synthesis failure.
type Error struct {
	Kind    Kind
	Code    int    // HTTP status, 0 when the call never got a response
	Status  string // Service status string, e.g. RESOURCE_EXHAUSTED
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the call may succeed after waiting.
func (e *Error) IsRetryable() bool {
	return e.Kind == KindQuota
}

// Classify turns an error from the service client into an *Error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if apiErr, ok := asAPIError(err); ok {
		kind := KindOther
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == statusResourceExhausted {
			kind = KindQuota
		}
		return &Error{
			Kind:    kind,
			Code:    apiErr.Code,
			Status:  apiErr.Status,
			Message: apiErr.Message,
			Cause:   err,
		}
	}

	msg := "synthesis request failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "synthesis request timed out"
	case errors.Is(err, context.Canceled):
		msg = "synthesis request canceled"
	}
	return &Error{Kind: KindOther, Message: msg, Cause: err}
}

// asAPIError accepts both the value and pointer forms the SDK may return.
func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}
