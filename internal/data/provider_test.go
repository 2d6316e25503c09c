package data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/chart-engine/internal/models"
)

func TestMockProviderServesCannedBars(t *testing.T) {
	m := NewMockProvider()
	m.SetBars("AAPL", []models.RawBar{
		{Timestamp: "2025-07-07T09:30:00", Open: 100, Close: 101},
	})

	bars, err := m.FetchBars(context.Background(), "aapl", "2025-07-07", "2025-07-07")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 1, m.Calls("AAPL"))
}

func TestMockProviderEmptySymbol(t *testing.T) {
	m := NewMockProvider()
	_, err := m.FetchBars(context.Background(), "  ", "2025-07-07", "2025-07-07")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestMockProviderUnknownSymbolIsEmptyNotError(t *testing.T) {
	m := NewMockProvider()
	bars, err := m.FetchBars(context.Background(), "ZZZZ", "2025-07-07", "2025-07-07")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestMockProviderInjectedError(t *testing.T) {
	m := NewMockProvider()
	boom := errors.New("connection reset")
	m.SetError(boom)

	_, err := m.FetchBars(context.Background(), "AAPL", "2025-07-07", "2025-07-07")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Calls("AAPL"))
}

func TestMockProviderCancelledContext(t *testing.T) {
	m := NewMockProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.FetchBars(ctx, "AAPL", "2025-07-07", "2025-07-07")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Calls("AAPL"))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("mock", ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.GetName())

	p, err = NewProvider("alpaca", ProviderConfig{APIKey: "k", APISecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, "alpaca", p.GetName())

	_, err = NewProvider("bloomberg", ProviderConfig{})
	assert.Error(t, err)
}
