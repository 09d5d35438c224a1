package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFormat(t *testing.T) {
	period := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "ISS-2026-00042", DefaultConfig("ISS").Format(period, 42))

	assert.Equal(t, "OP-00007", Config{Prefix: "OP"}.Format(period, 7))

	assert.Equal(t, "X-2026-123", Config{
		Prefix:      "X",
		IncludeYear: true,
		PadWidth:    2,
	}.Format(period, 123))
}
