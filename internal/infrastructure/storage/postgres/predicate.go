package postgres

import (
	"sort"

	"github.com/Masterminds/squirrel"

	"fixpoint/internal/domain/query"
)

// BuildPredicate turns a validated filter spec into a conjunction of equality
// clauses against the base table. An empty spec yields nil, the identity
// predicate. Only query.ValidFilters is accepted here: field names reach this
// point exclusively through the allow-list resolver.
func BuildPredicate(table string, filters query.ValidFilters) squirrel.Sqlizer {
	if len(filters) == 0 {
		return nil
	}

	fields := make([]string, 0, len(filters))
	for f := range filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	conj := make(squirrel.And, 0, len(fields))
	for _, f := range fields {
		conj = append(conj, squirrel.Eq{table + "." + f: filters[f]})
	}
	return conj
}

// applySoftDelete appends the not-deleted clause for soft-deleting entities
// unless the read explicitly opted into deleted rows. Participation of
// deleted_at is controlled by this boolean alone; it is not a filterable
// field, so callers cannot reach it through the filter map.
func applySoftDelete(q squirrel.SelectBuilder, table string, softDelete, includeDeleted bool) squirrel.SelectBuilder {
	if softDelete && !includeDeleted {
		q = q.Where(squirrel.Eq{table + ".deleted_at": nil})
	}
	return q
}
