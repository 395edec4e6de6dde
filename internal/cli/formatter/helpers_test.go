package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0h", FormatHours(0))
	assert.Equal(t, "2h", FormatHours(2))
	assert.Equal(t, "1.5h", FormatHours(1.5))
	assert.Equal(t, "0.75h", FormatHours(0.75))
	assert.Equal(t, "2.33h", FormatHours(2.33))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a long ...", Truncate("a long description", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "Today", HumanDate(time.Now()))
	assert.Equal(t, "Yesterday", HumanDate(time.Now().AddDate(0, 0, -1)))
	assert.Equal(t, "Jan 2, 2020", HumanDate(time.Date(2020, 1, 2, 10, 0, 0, 0, time.Local)))
}
