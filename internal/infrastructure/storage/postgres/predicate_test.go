package postgres

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint/internal/domain/query"
)

func TestBuildPredicate(t *testing.T) {
	t.Run("empty filters yield nil", func(t *testing.T) {
		assert.Nil(t, BuildPredicate("products", nil))
		assert.Nil(t, BuildPredicate("products", query.ValidFilters{}))
	})

	t.Run("fields are qualified and ordered", func(t *testing.T) {
		pred := BuildPredicate("products", query.ValidFilters{
			"status":   "in_repair",
			"owner_id": "o-1",
		})
		require.NotNil(t, pred)

		sql, args, err := pred.ToSql()
		require.NoError(t, err)
		assert.Equal(t, "(products.owner_id = ? AND products.status = ?)", sql)
		assert.Equal(t, []any{"o-1", "in_repair"}, args)
	})

	t.Run("single filter", func(t *testing.T) {
		pred := BuildPredicate("issues", query.ValidFilters{"priority": "high"})

		sql, args, err := pred.ToSql()
		require.NoError(t, err)
		assert.Equal(t, "(issues.priority = ?)", sql)
		assert.Equal(t, []any{"high"}, args)
	})
}

func TestApplySoftDelete(t *testing.T) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").From("products")

	t.Run("soft-deleting entity excludes deleted rows", func(t *testing.T) {
		sql, _, err := applySoftDelete(base, "products", true, false).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM products WHERE products.deleted_at IS NULL", sql)
	})

	t.Run("include deleted skips the clause", func(t *testing.T) {
		sql, _, err := applySoftDelete(base, "products", true, true).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM products", sql)
	})

	t.Run("hard-delete entity never gets the clause", func(t *testing.T) {
		sql, _, err := applySoftDelete(base, "products", false, false).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM products", sql)
	})
}
