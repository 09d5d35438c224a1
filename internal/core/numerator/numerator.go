// Package numerator provides the domain contract for human-readable sequential
// numbers (issue numbers like ISS-2026-00042). The PostgreSQL implementation
// lives in infrastructure/storage/postgres.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Generator allocates the next number in a named sequence.
type Generator interface {
	// NextNumber returns the next formatted number for the configured
	// sequence. Numbers are sequential without gaps; the period selects the
	// counter when the sequence resets yearly.
	NextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}

// Config holds numbering configuration for one sequence.
type Config struct {
	// Prefix added to all numbers (e.g. "ISS")
	Prefix string

	// IncludeYear adds the period's year to the number and resets the
	// counter each year
	IncludeYear bool

	// PadWidth is the minimum counter width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults: yearly reset, width 5.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}

// Format renders a counter value according to the config.
func (c Config) Format(period time.Time, n int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = 5
	}
	if c.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", c.Prefix, period.Year(), width, n)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, width, n)
}
