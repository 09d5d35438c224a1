// Package query defines the inbound query contract for list operations:
// equality filters, single-field sorting, and pagination. Field names arrive
// as caller-chosen strings and are validated here against per-entity
// allow-lists before anything downstream may touch them.
package query

import (
	"sort"

	"fixpoint/internal/core/apperror"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names one field and a direction.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Options carries the caller-supplied query parameters for list reads.
// Filters and Sort reference field names that MUST be resolved against the
// entity's allow-lists before use. IncludeDeleted is a flag, never a filter
// field, so it cannot be smuggled in through Filters.
type Options struct {
	Filters        map[string]any
	Sort           *Sort
	Page           *PageRequest
	IncludeDeleted bool
}

// FieldSet is a static allow-list of permitted field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from field names.
func NewFieldSet(fields ...string) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Contains reports whether field is in the set.
func (s FieldSet) Contains(field string) bool {
	_, ok := s[field]
	return ok
}

// Fields returns the member names in sorted order.
func (s FieldSet) Fields() []string {
	fields := make([]string, 0, len(s))
	for f := range s {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ValidFilters is a filter map whose keys have been checked against an
// entity's filter allow-list. Downstream predicate construction accepts only
// this type, so an unvetted field name cannot reach the store.
type ValidFilters map[string]any

// ValidSort is a sort spec whose field has been checked against an entity's
// sort allow-list.
type ValidSort struct {
	Field string
	Desc  bool
}

// ResolveFilters validates every requested filter field against the entity's
// allow-list. Unknown fields are rejected, never silently dropped: a dropped
// filter would widen the result set behind the caller's back. Keys are checked
// in sorted order so the reported field is deterministic.
func ResolveFilters(entity string, allowed FieldSet, filters map[string]any) (ValidFilters, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	valid := make(ValidFilters, len(filters))
	for _, k := range keys {
		if !allowed.Contains(k) {
			return nil, apperror.NewFieldNotAllowed(entity, k)
		}
		valid[k] = filters[k]
	}
	return valid, nil
}

// ResolveSort validates the requested sort field and direction. A nil request
// resolves to nil (caller applies its default ordering). An empty direction
// defaults to ascending.
func ResolveSort(entity string, allowed FieldSet, s *Sort) (*ValidSort, error) {
	if s == nil {
		return nil, nil
	}

	if !allowed.Contains(s.Field) {
		return nil, apperror.NewFieldNotAllowed(entity, s.Field)
	}

	switch s.Direction {
	case Asc, "":
		return &ValidSort{Field: s.Field}, nil
	case Desc:
		return &ValidSort{Field: s.Field, Desc: true}, nil
	default:
		return nil, apperror.NewValidation("invalid sort direction").
			WithDetail("entity", entity).
			WithDetail("direction", string(s.Direction))
	}
}
