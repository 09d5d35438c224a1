package query

import (
	"fixpoint/internal/core/apperror"
)

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 200

// PageRequest is a 1-based page/pageSize pair.
//
// Out-of-range values are rejected with a validation error rather than
// clamped: silently shrinking or shifting a page would hand the caller a
// different slice of data than the one it asked for.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Validate checks the request bounds: page >= 1, 1 <= pageSize <= MaxPageSize.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return apperror.NewValidation("page must be >= 1").
			WithDetail("page", p.Page)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return apperror.NewValidation("pageSize out of range").
			WithDetail("pageSize", p.PageSize).
			WithDetail("max", MaxPageSize)
	}
	return nil
}

// LimitOffset converts the request into SQL limit/offset values.
func (p PageRequest) LimitOffset() (limit, offset uint64) {
	return uint64(p.PageSize), uint64((p.Page - 1) * p.PageSize)
}

// Pagination is the metadata envelope returned alongside a page of results.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes the envelope from the total row count and the request
// that produced the page. TotalPages is ceil(total/pageSize) and 0 when the
// result set is empty. HasPrev can be true past the end of an empty result;
// that is reported as-is so callers can detect "page past the end".
func NewPagination(total int64, req PageRequest) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return Pagination{
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}
}

// TotalOnly is the envelope for unpaginated reads: all matching rows were
// returned in a single page.
func TotalOnly(total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = 1
	}
	return Pagination{
		Total:      total,
		Page:       1,
		PageSize:   int(total),
		TotalPages: totalPages,
	}
}
