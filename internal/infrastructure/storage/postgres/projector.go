package postgres

import (
	"fmt"

	"fixpoint/internal/domain/registry"
)

// projection is the flattened SELECT/JOIN shape for one entity and variant.
// It depends only on the static registration data, never on request values,
// so the shape of a read is identical across calls.
type projection struct {
	selects []string
	joins   []string // "table AS alias ON cond", consumed by LeftJoin
}

// buildProjection expands the base columns and a variant's relation tree into
// select expressions and join clauses. Related columns are aliased with the
// relation path ("owner.name", "model.manufacturer.name") so pgxscan maps
// them onto the nested projection structs.
func buildProjection(table string, cols []string, rels []registry.Relation) projection {
	var p projection
	for _, c := range cols {
		p.selects = append(p.selects, table+"."+c)
	}
	appendRelations(&p, table, "", rels)
	return p
}

func appendRelations(p *projection, parentRef, prefix string, rels []registry.Relation) {
	for _, r := range rels {
		path := r.Name
		if prefix != "" {
			path = prefix + "." + r.Name
		}
		alias := quoteIdent(path)

		p.joins = append(p.joins, fmt.Sprintf("%s AS %s ON %s.%s = %s.%s",
			r.Table, alias, alias, r.JoinKey(), parentRef, r.LocalKey))

		for _, c := range r.Columns {
			p.selects = append(p.selects, fmt.Sprintf("%s.%s AS %s",
				alias, c, quoteIdent(path+"."+c)))
		}

		appendRelations(p, alias, path, r.Nested)
	}
}

// quoteIdent quotes an alias; relation paths contain dots.
func quoteIdent(s string) string {
	return `"` + s + `"`
}
