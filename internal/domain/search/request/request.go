package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 512
	DefaultLimit   = 8
	MinLimit       = 1
	MaxLimit       = 20
)

// Request is a validated search query.
type Request struct {
	query string
	limit int
}

// New validates the query and clamps the limit to [MinLimit, MaxLimit].
// A zero limit means "not specified" and selects DefaultLimit.
func New(query string, limit int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w (max %d chars)", domain.ErrQueryTooLong, MaxQueryLength)
	}

	return Request{query: query, limit: ClampLimit(limit)}, nil
}

// ClampLimit applies the default and bounds to a requested result count.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < MinLimit:
		return MinLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Query returns the trimmed search text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// WithLimit returns a copy capped at limit. Used by operations with a tighter cap.
func (r Request) WithLimit(limit int) Request {
	if limit < r.limit {
		r.limit = ClampLimit(limit)
	}
	return r
}
