package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/core/apperror"
)

func TestPageRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PageRequest
		wantErr bool
	}{
		{"first page", PageRequest{Page: 1, PageSize: 10}, false},
		{"max page size", PageRequest{Page: 1, PageSize: MaxPageSize}, false},
		{"zero page", PageRequest{Page: 0, PageSize: 10}, true},
		{"negative page", PageRequest{Page: -1, PageSize: 10}, true},
		{"zero page size", PageRequest{Page: 1, PageSize: 0}, true},
		{"page size over cap", PageRequest{Page: 1, PageSize: MaxPageSize + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPageRequestLimitOffset(t *testing.T) {
	limit, offset := PageRequest{Page: 1, PageSize: 20}.LimitOffset()
	assert.Equal(t, uint64(20), limit)
	assert.Equal(t, uint64(0), offset)

	limit, offset = PageRequest{Page: 3, PageSize: 25}.LimitOffset()
	assert.Equal(t, uint64(25), limit)
	assert.Equal(t, uint64(50), offset)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		req   PageRequest
		want  Pagination
	}{
		{
			name:  "middle page",
			total: 25,
			req:   PageRequest{Page: 2, PageSize: 10},
			want: Pagination{
				Total: 25, Page: 2, PageSize: 10,
				TotalPages: 3, HasNext: true, HasPrev: true,
			},
		},
		{
			name:  "last partial page",
			total: 25,
			req:   PageRequest{Page: 3, PageSize: 10},
			want: Pagination{
				Total: 25, Page: 3, PageSize: 10,
				TotalPages: 3, HasNext: false, HasPrev: true,
			},
		},
		{
			name:  "single page",
			total: 7,
			req:   PageRequest{Page: 1, PageSize: 10},
			want: Pagination{
				Total: 7, Page: 1, PageSize: 10,
				TotalPages: 1, HasNext: false, HasPrev: false,
			},
		},
		{
			name:  "exact multiple",
			total: 30,
			req:   PageRequest{Page: 1, PageSize: 10},
			want: Pagination{
				Total: 30, Page: 1, PageSize: 10,
				TotalPages: 3, HasNext: true, HasPrev: false,
			},
		},
		{
			name:  "empty result",
			total: 0,
			req:   PageRequest{Page: 1, PageSize: 10},
			want: Pagination{
				Total: 0, Page: 1, PageSize: 10,
				TotalPages: 0, HasNext: false, HasPrev: false,
			},
		},
		{
			name:  "page past the end of an empty result keeps HasPrev",
			total: 0,
			req:   PageRequest{Page: 5, PageSize: 10},
			want: Pagination{
				Total: 0, Page: 5, PageSize: 10,
				TotalPages: 0, HasNext: false, HasPrev: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.total, tt.req))
		})
	}
}

func TestTotalOnly(t *testing.T) {
	assert.Equal(t, Pagination{
		Total: 42, Page: 1, PageSize: 42, TotalPages: 1,
	}, TotalOnly(42))

	assert.Equal(t, Pagination{
		Total: 0, Page: 1, PageSize: 0, TotalPages: 0,
	}, TotalOnly(0))
}
