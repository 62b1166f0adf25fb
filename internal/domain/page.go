package domain

import (
	"errors"
	"math"
)

// ErrInvalidPage indicates invalid pagination input.
var ErrInvalidPage = errors.New("invalid page")

// MaxPageLimit is the largest page size served.
const MaxPageLimit = 100

// Pagination describes the position of a page in a listing.
type Pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination returns Pagination for the given page, limit and total row count.
func NewPagination(page, limit int32, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}

	return p
}

// Offset converts page and limit into the row offset. Pages whose offset does not fit int32
// are rejected.
func Offset(page, limit int32) (int32, error) {
	if page < 1 || limit < 1 || limit > MaxPageLimit {
		return 0, ErrInvalidPage
	}

	offset := int64(page-1) * int64(limit)
	if offset > math.MaxInt32 {
		return 0, ErrInvalidPage
	}

	return int32(offset), nil
}
