package data

import (
	"context"
	"strings"
	"sync"

	"github.com/mohamedkhairy/chart-engine/internal/models"
)

// MockProvider is an in-memory BarProvider for tests and dry runs.
// It serves canned bars per symbol and records fetch calls so tests can
// assert cache idempotence.
type MockProvider struct {
	mu    sync.RWMutex
	bars  map[string][]models.RawBar
	err   error
	calls map[string]int
}

// NewMockProvider creates an empty mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		bars:  make(map[string][]models.RawBar),
		calls: make(map[string]int),
	}
}

// GetName returns the provider name
func (m *MockProvider) GetName() string { return "mock" }

// SetBars installs the canned bars returned for a symbol
func (m *MockProvider) SetBars(symbol string, bars []models.RawBar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[strings.ToUpper(symbol)] = bars
}

// SetError makes every subsequent fetch fail with err
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times FetchBars ran for a symbol
func (m *MockProvider) Calls(symbol string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[strings.ToUpper(symbol)]
}

// FetchBars returns the canned bars for the symbol. Symbols with no
// canned data get an empty slice, mirroring a vendor's "no data"
// response rather than an error.
func (m *MockProvider) FetchBars(ctx context.Context, symbol, fromDate, toDate string) ([]models.RawBar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[symbol]++
	if m.err != nil {
		return nil, m.err
	}
	return m.bars[symbol], nil
}
