package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a blank or whitespace-only search query.
	ErrEmptyQuery = errors.New("query is required")
	// ErrQueryTooLong signals a query above MaxQueryLength.
	ErrQueryTooLong = errors.New("query too long")
	// ErrUpstreamUnavailable signals a failed call to the product catalog.
	ErrUpstreamUnavailable = errors.New("catalog unavailable")
	// ErrSearchFailed signals that every retrieval pass failed.
	ErrSearchFailed = errors.New("search failed, try again later")
	// ErrRateLimited signals an exhausted request quota.
	ErrRateLimited = errors.New("rate limited")
	// ErrAssistantUnavailable signals a message-generation provider failure.
	ErrAssistantUnavailable = errors.New("assistant provider error")
)

// UpstreamError wraps ErrUpstreamUnavailable with the catalog response status.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", ErrUpstreamUnavailable.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrUpstreamUnavailable.Error(), e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamUnavailable }

// NewUpstreamError creates an upstream error for a non-2xx catalog response.
func NewUpstreamError(statusCode int, message string) error {
	return &UpstreamError{StatusCode: statusCode, Message: message}
}
