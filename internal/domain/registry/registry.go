// Package registry holds the static, per-entity registration data the generic
// repository is driven by: filter and sort allow-lists, the table name, the
// soft-delete policy, and the relation projections for each query variant.
// Definitions are built once at startup and validated there, so a bad
// projection or an undeclared variant fails the process, not a request.
package registry

import (
	"fmt"

	"fixpoint/internal/domain/query"
)

// Variant names a projection shape for an entity. List views project fewer
// related columns than detail views.
type Variant string

const (
	VariantList   Variant = "list"
	VariantDetail Variant = "detail"
)

// MaxRelationDepth bounds relation nesting. Two levels is enough for every
// declared projection (e.g. product -> model -> manufacturer) and keeps the
// join fan-out of a single request known at definition time.
const MaxRelationDepth = 2

// Relation declares one related table to project into a read. Name doubles as
// the SQL alias and the db-tag prefix of the projection struct the related
// columns are scanned into.
type Relation struct {
	// Name is the relation alias, e.g. "owner"
	Name string

	// Table is the related table, e.g. "companies"
	Table string

	// LocalKey is the FK column on the parent table, e.g. "owner_id"
	LocalKey string

	// ForeignKey is the key column on the related table; defaults to "id"
	ForeignKey string

	// Columns are the related columns to project
	Columns []string

	// Nested relations join off this relation's table
	Nested []Relation
}

// JoinKey returns the configured foreign key or the "id" default.
func (r Relation) JoinKey() string {
	if r.ForeignKey == "" {
		return "id"
	}
	return r.ForeignKey
}

// Definition is the complete registration record for one entity.
type Definition struct {
	// Name identifies the entity in errors and audit records
	Name string

	// Table is the entity's base table
	Table string

	// SoftDelete selects soft delete (deleted_at) over physical delete
	SoftDelete bool

	// FilterFields is the filter allow-list
	FilterFields query.FieldSet

	// SortFields is the sort allow-list
	SortFields query.FieldSet

	// Projections maps each query variant to its relation shape.
	// Both list and detail must be declared, even if empty.
	Projections map[Variant][]Relation
}

// Projection returns the relation shape for a variant. Definitions are
// validated at registration, so a missing variant cannot occur at runtime.
func (d Definition) Projection(v Variant) []Relation {
	return d.Projections[v]
}

// Validate checks the definition invariants. It is called by the registry on
// registration; a failure there is a programmer error.
func (d Definition) Validate() error {
	if d.Name == "" || d.Table == "" {
		return fmt.Errorf("definition needs name and table (name=%q table=%q)", d.Name, d.Table)
	}
	if len(d.FilterFields) == 0 {
		return fmt.Errorf("%s: empty filter allow-list", d.Name)
	}
	if len(d.SortFields) == 0 {
		return fmt.Errorf("%s: empty sort allow-list", d.Name)
	}
	for _, v := range []Variant{VariantList, VariantDetail} {
		rels, ok := d.Projections[v]
		if !ok {
			return fmt.Errorf("%s: variant %q not declared", d.Name, v)
		}
		if err := validateRelations(d.Name, rels, 1); err != nil {
			return err
		}
	}
	return nil
}

func validateRelations(entity string, rels []Relation, depth int) error {
	if len(rels) > 0 && depth > MaxRelationDepth {
		return fmt.Errorf("%s: relation nesting exceeds depth %d", entity, MaxRelationDepth)
	}
	seen := make(map[string]struct{}, len(rels))
	for _, r := range rels {
		if r.Name == "" || r.Table == "" || r.LocalKey == "" {
			return fmt.Errorf("%s: relation needs name, table and local key (name=%q)", entity, r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%s: duplicate relation %q", entity, r.Name)
		}
		seen[r.Name] = struct{}{}
		if len(r.Columns) == 0 {
			return fmt.Errorf("%s: relation %q projects no columns", entity, r.Name)
		}
		if err := validateRelations(entity, r.Nested, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Registry maps entity names to their definitions.
type Registry struct {
	defs map[string]Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// MustRegister validates and stores a definition, panicking on an invalid or
// duplicate one. Registration happens at startup; failing fast is the point.
func (r *Registry) MustRegister(d Definition) {
	if err := d.Validate(); err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	if _, exists := r.defs[d.Name]; exists {
		panic(fmt.Sprintf("registry: %s registered twice", d.Name))
	}
	r.defs[d.Name] = d
}

// Get returns the definition for an entity name.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns the registered entity names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	return names
}
