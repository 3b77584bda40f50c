// Package daterange_test contains tests for the daterange package
package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/daterange"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestUnbounded(t *testing.T) {
	from := timePtr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	to := timePtr(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))

	assert.True(t, daterange.Range{}.Unbounded())
	assert.True(t, daterange.Range{From: from}.Unbounded(), "a single bound fails open")
	assert.True(t, daterange.Range{To: to}.Unbounded(), "a single bound fails open")
	assert.False(t, daterange.Range{From: from, To: to}.Unbounded())
}

func TestContainsInclusiveBounds(t *testing.T) {
	window := daterange.Range{
		From: timePtr(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		To:   timePtr(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
	}

	assert.True(t, window.Contains("2025-03-10"))
	assert.True(t, window.Contains("2025-03-15"))
	assert.True(t, window.Contains("2025-03-20"))
	assert.False(t, window.Contains("2025-03-09"))
	assert.False(t, window.Contains("2025-03-21"))
}

func TestContainsIgnoresTimeOfDayOnBounds(t *testing.T) {
	window := daterange.Range{
		From: timePtr(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)),
		To:   timePtr(time.Date(2025, 3, 20, 0, 1, 0, 0, time.UTC)),
	}

	assert.True(t, window.Contains("2025-03-10"), "bounds truncate to the calendar day")
	assert.True(t, window.Contains("2025-03-20"))
}

func TestContainsUnparseableDatesPass(t *testing.T) {
	window := daterange.Range{
		From: timePtr(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		To:   timePtr(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
	}

	assert.True(t, window.Contains("not-a-date"))
	assert.True(t, window.Contains(""))
}

func TestParse(t *testing.T) {
	window := daterange.Parse("2025-03-01", "2025-03-31")
	require.NotNil(t, window.From)
	require.NotNil(t, window.To)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *window.From)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *window.To)
}

func TestParseAcceptsRFC3339(t *testing.T) {
	window := daterange.Parse("2025-03-01T12:30:00Z", "2025-03-31T00:00:00Z")
	require.NotNil(t, window.From)
	require.NotNil(t, window.To)
	assert.False(t, window.Unbounded())
}

func TestParseBlankOrInvalidBoundsStayNil(t *testing.T) {
	assert.True(t, daterange.Parse("", "").Unbounded())
	assert.True(t, daterange.Parse("2025-03-01", "").Unbounded())
	assert.True(t, daterange.Parse("garbage", "2025-03-31").Unbounded())
}
