package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/domain/query"
)

func validDefinition() Definition {
	return Definition{
		Name:         "gadget",
		Table:        "gadgets",
		SoftDelete:   true,
		FilterFields: query.NewFieldSet("name"),
		SortFields:   query.NewFieldSet("name"),
		Projections: map[Variant][]Relation{
			VariantList: nil,
			VariantDetail: {
				{Name: "owner", Table: "owners", LocalKey: "owner_id",
					Columns: []string{"id", "name"}},
			},
		},
	}
}

func TestDefinitionValidate(t *testing.T) {
	t.Run("valid definition passes", func(t *testing.T) {
		assert.NoError(t, validDefinition().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"missing name", func(d *Definition) { d.Name = "" }},
		{"missing table", func(d *Definition) { d.Table = "" }},
		{"empty filter allow-list", func(d *Definition) { d.FilterFields = nil }},
		{"empty sort allow-list", func(d *Definition) { d.SortFields = nil }},
		{"undeclared list variant", func(d *Definition) { delete(d.Projections, VariantList) }},
		{"undeclared detail variant", func(d *Definition) { delete(d.Projections, VariantDetail) }},
		{"relation without local key", func(d *Definition) {
			d.Projections[VariantDetail][0].LocalKey = ""
		}},
		{"relation without columns", func(d *Definition) {
			d.Projections[VariantDetail][0].Columns = nil
		}},
		{"duplicate relation name", func(d *Definition) {
			rels := d.Projections[VariantDetail]
			d.Projections[VariantDetail] = append(rels, rels[0])
		}},
		{"nesting past the depth bound", func(d *Definition) {
			d.Projections[VariantDetail][0].Nested = []Relation{
				{Name: "country", Table: "countries", LocalKey: "country_id",
					Columns: []string{"id"},
					Nested: []Relation{
						{Name: "region", Table: "regions", LocalKey: "region_id",
							Columns: []string{"id"}},
					}},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDefinition()
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestRelationJoinKey(t *testing.T) {
	assert.Equal(t, "id", Relation{}.JoinKey())
	assert.Equal(t, "code", Relation{ForeignKey: "code"}.JoinKey())
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		reg := New()
		reg.MustRegister(validDefinition())

		d, ok := reg.Get("gadget")
		require.True(t, ok)
		assert.Equal(t, "gadgets", d.Table)
		assert.Equal(t, []string{"gadget"}, reg.Names())

		_, ok = reg.Get("widget")
		assert.False(t, ok)
	})

	t.Run("invalid definition panics", func(t *testing.T) {
		reg := New()
		d := validDefinition()
		d.Table = ""
		assert.Panics(t, func() { reg.MustRegister(d) })
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		reg := New()
		reg.MustRegister(validDefinition())
		assert.Panics(t, func() { reg.MustRegister(validDefinition()) })
	})
}
