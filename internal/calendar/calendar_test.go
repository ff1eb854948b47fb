package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/models"
)

func TestFindMatching_CPIRelease(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(from, 1)

	ts := time.Date(2026, 1, 13, 8, 35, 0, 0, time.UTC)
	e, ok := c.FindMatching(ts, "", []string{"cpi", "inflation"}, 0)
	require.True(t, ok)
	assert.Equal(t, "CPI Release", e.Name)
}

func TestFindMatching_JobsReleaseFirstFridayOnly(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(from, 1)

	ts := time.Date(2026, 2, 6, 8, 30, 0, 0, time.UTC)
	_, ok := c.FindMatching(ts, "", []string{"jobs"}, 0)
	assert.True(t, ok)

	// Third Friday of the same month: no jobs release.
	_, ok = c.FindMatching(time.Date(2026, 2, 20, 8, 30, 0, 0, time.UTC), "", []string{"jobs"}, 0)
	assert.False(t, ok)
}

func TestFindMatching_NoMatchOutsideWindow(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(from, 1)

	ts := time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC)
	_, ok := c.FindMatching(ts, "", []string{"cpi"}, 0)
	assert.False(t, ok)
}

func TestFindMatching_ManualTickerEvent(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(from, 1)
	et := time.Date(2026, 4, 15, 16, 0, 0, 0, time.UTC)
	c.Add(models.Event{Name: "AAPL Earnings Call", Ticker: "AAPL", Time: et, Importance: models.ImportanceHigh})

	e, ok := c.FindMatching(et.Add(5*time.Minute), "AAPL", nil, 30*time.Minute)
	require.True(t, ok)
	assert.Equal(t, "AAPL", e.Ticker)
}
