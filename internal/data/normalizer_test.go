package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(timezone.NewResolver(), "America/New_York")
}

func nyNow(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(2025, 7, 7, 16, 30, 0, 0, loc)
}

func TestNormalizeBarsSortsAscending(t *testing.T) {
	n := newTestNormalizer()
	now := nyNow(t)

	raw := []models.RawBar{
		{Timestamp: "2025-07-07T15:55:00", Open: 108, Close: 110},
		{Timestamp: "2025-07-07T09:30:00", Open: 100, Close: 101},
		{Timestamp: "2025-07-07T12:00:00", Open: 104, Close: 105},
	}

	bars := n.NormalizeBars(raw, now)
	require.Len(t, bars, 3)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 105.0, bars[1].Close)
	assert.Equal(t, 110.0, bars[2].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.True(t, bars[1].Time.Before(bars[2].Time))
}

func TestNormalizeBarsDropsUnparsable(t *testing.T) {
	n := newTestNormalizer()
	now := nyNow(t)

	raw := []models.RawBar{
		{Timestamp: "2025-07-07T09:30:00", Open: 100, Close: 101},
		{Timestamp: "garbage", Open: 1, Close: 2},
		{Timestamp: "", Open: 3, Close: 4},
	}

	bars := n.NormalizeBars(raw, now)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.0, bars[0].Open)
}

func TestNormalizeBarsDropsFutureBars(t *testing.T) {
	n := newTestNormalizer()
	now := nyNow(t) // 16:30 ET

	raw := []models.RawBar{
		{Timestamp: "2025-07-07T15:55:00", Open: 108, Close: 110},
		{Timestamp: "2025-07-07T17:00:00", Open: 111, Close: 112}, // after now
		{Timestamp: "2025-07-08T09:30:00", Open: 113, Close: 114}, // next day
	}

	bars := n.NormalizeBars(raw, now)
	require.Len(t, bars, 1)
	assert.Equal(t, 110.0, bars[0].Close)
}

func TestNormalizeBarsDateOnlyIsMarketClose(t *testing.T) {
	n := newTestNormalizer()
	now := nyNow(t)

	bars := n.NormalizeBars([]models.RawBar{{Timestamp: "2025-07-07", Open: 100, Close: 103}}, now)
	require.Len(t, bars, 1)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.True(t, bars[0].Time.Equal(time.Date(2025, 7, 7, 16, 0, 0, 0, loc)))
}

func TestLatestSessionBars(t *testing.T) {
	n := newTestNormalizer()
	now := nyNow(t)

	// Two sessions in one fetch: only the most recent day survives
	raw := []models.RawBar{
		{Timestamp: "2025-07-03T09:30:00", Open: 90, Close: 91},
		{Timestamp: "2025-07-03T12:55:00", Open: 92, Close: 93},
		{Timestamp: "2025-07-07T09:30:00", Open: 100, Close: 101},
		{Timestamp: "2025-07-07T15:55:00", Open: 108, Close: 110},
	}

	bars := n.NormalizeBars(raw, now)
	kept, day := n.LatestSessionBars(bars)
	assert.Equal(t, "2025-07-07", day)
	require.Len(t, kept, 2)
	assert.Equal(t, 100.0, kept[0].Open)
	assert.Equal(t, 110.0, kept[1].Close)
}

func TestLatestSessionBarsEmpty(t *testing.T) {
	n := newTestNormalizer()
	kept, day := n.LatestSessionBars(nil)
	assert.Empty(t, kept)
	assert.Equal(t, "", day)
}
