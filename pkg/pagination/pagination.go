package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with the limit clamped and negative offsets zeroed.
func (p Params) Normalize() Params {
	p.Limit = NormalizeLimit(p.Limit)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// FromRequest reads limit/offset query parameters, tolerating absent or
// malformed values.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return Params{Limit: limit, Offset: offset}.Normalize()
}
