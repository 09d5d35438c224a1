package postgres

import (
	"context"
	"fmt"
	"time"

	"fixpoint/internal/core/numerator"
)

// Compile-time check that Numerator implements numerator.Generator.
var _ numerator.Generator = (*Numerator)(nil)

// Numerator allocates sequential numbers with an UPSERT ... RETURNING against
// the sys_sequences table, safe under concurrent allocation. Allocation runs
// in a before-create hook, outside the creation's transaction; a creation that
// fails afterwards leaves a gap, which is acceptable for issue numbers.
type Numerator struct {
	txm *TxManager
}

// NewNumerator creates a numerator on the given transaction manager.
func NewNumerator(txm *TxManager) *Numerator {
	return &Numerator{txm: txm}
}

// NextNumber implements numerator.Generator.
func (n *Numerator) NextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	year := 0
	if cfg.IncludeYear {
		year = period.Year()
	}

	sql := `
		INSERT INTO sys_sequences (sequence_type, year, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (sequence_type, year)
		DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`

	var num int64
	if err := n.txm.GetQuerier(ctx).QueryRow(ctx, sql, cfg.Prefix, year).Scan(&num); err != nil {
		return "", fmt.Errorf("next number for %s: %w", cfg.Prefix, err)
	}

	return cfg.Format(period, num), nil
}
