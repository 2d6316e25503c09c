package data

import (
	"context"
	"errors"

	"github.com/mohamedkhairy/chart-engine/internal/models"
)

var (
	// ErrInvalidSymbol is returned when an empty or malformed symbol is requested
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrFetchFailed is returned when the provider cannot deliver bars
	ErrFetchFailed = errors.New("bar fetch failed")
)

// BarProvider is the bar-fetch collaborator boundary. Implementations
// return raw vendor bars for a symbol between two exchange-local
// calendar dates (inclusive, YYYY-MM-DD). Bars carry civil timestamps
// in the exchange timezone; the engine normalizes them itself.
type BarProvider interface {
	// FetchBars fetches raw intraday bars for the symbol and date range
	FetchBars(ctx context.Context, symbol, fromDate, toDate string) ([]models.RawBar, error)

	// GetName returns the provider name (e.g., "alpaca", "mock")
	GetName() string
}

// NewProvider creates a provider instance by type
func NewProvider(providerType string, cfg ProviderConfig) (BarProvider, error) {
	switch providerType {
	case "alpaca":
		return NewAlpacaProvider(cfg), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, errors.New("unknown provider type: " + providerType)
	}
}

// ProviderConfig holds provider credentials and endpoints
type ProviderConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Feed      string
}
