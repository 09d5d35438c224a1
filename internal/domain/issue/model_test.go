package issue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fixpoint/internal/core/apperror"
	"fixpoint/internal/core/id"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusClosed, true},
		{StatusOpen, StatusResolved, false},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusOpen, true},
		{StatusInProgress, StatusClosed, false},
		{StatusResolved, StatusClosed, true},
		{StatusResolved, StatusInProgress, true},
		{StatusResolved, StatusOpen, false},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusInProgress, false},
		{StatusOpen, StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIssueValidate(t *testing.T) {
	ctx := context.Background()
	productID, companyID := id.New(), id.New()

	t.Run("valid", func(t *testing.T) {
		is := New(productID, companyID, "screen cracked", PriorityHigh)
		assert.NoError(t, is.Validate(ctx))
	})

	tests := []struct {
		name   string
		mutate func(*Issue)
	}{
		{"empty summary", func(i *Issue) { i.Summary = "" }},
		{"unknown status", func(i *Issue) { i.Status = "paused" }},
		{"unknown priority", func(i *Issue) { i.Priority = "urgent" }},
		{"nil product", func(i *Issue) { i.ProductID = id.Nil() }},
		{"nil company", func(i *Issue) { i.CompanyID = id.Nil() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := New(productID, companyID, "screen cracked", PriorityHigh)
			tt.mutate(is)

			err := is.Validate(ctx)
			assert.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}
