package shopsearch

import "github.com/kailas-cloud/shopsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery          = domain.ErrEmptyQuery
	ErrQueryTooLong        = domain.ErrQueryTooLong
	ErrSearchFailed        = domain.ErrSearchFailed
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
)
