package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fixpoint/internal/core/entity"
	"fixpoint/internal/core/id"
)

type mockOwnerInfo struct {
	ID   *id.ID  `db:"id"`
	Name *string `db:"name"`
}

type mockUnit struct {
	entity.Base
	SerialNumber string          `db:"serial_number"`
	Price        decimal.Decimal `db:"price"`
	OwnerID      id.ID           `db:"owner_id"`
	Untagged     string
	Skipped      string `db:"-"`

	Owner mockOwnerInfo `db:"owner"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockUnit]()

	// Embedded base columns first, then the entity's own, in declaration order.
	assert.Equal(t, []string{
		"id", "created_at", "updated_at", "deleted_at",
		"serial_number", "price", "owner_id",
	}, cols)
}

func TestExtractDBColumns_SkipsRelationStructs(t *testing.T) {
	cols := ExtractDBColumns[mockUnit]()

	assert.NotContains(t, cols, "owner")
	// time.Time and decimal.Decimal are scalar columns despite being structs.
	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "price")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	entityID := id.New()
	ownerID := id.New()
	name := "ACME"

	u := mockUnit{
		Base: entity.Base{
			ID:        entityID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		SerialNumber: "SN-000001",
		Price:        decimal.NewFromInt(99),
		OwnerID:      ownerID,
		Untagged:     "ignored",
		Owner:        mockOwnerInfo{ID: &ownerID, Name: &name},
	}

	m := StructToMap(u)

	assert.Equal(t, entityID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, now, m["updated_at"])
	assert.Equal(t, "SN-000001", m["serial_number"])
	assert.Equal(t, ownerID, m["owner_id"])
	assert.True(t, decimal.NewFromInt(99).Equal(m["price"].(decimal.Decimal)))

	// Relation projections and untagged fields never reach the column map.
	assert.NotContains(t, m, "owner")
	assert.NotContains(t, m, "Untagged")

	// Nil deleted_at still appears: it is a real column.
	assert.Contains(t, m, "deleted_at")
}

func TestStructToMap_PointerInput(t *testing.T) {
	u := &mockUnit{SerialNumber: "SN-000002"}
	m := StructToMap(u)
	assert.Equal(t, "SN-000002", m["serial_number"])
}
