package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
)

// AlpacaProvider fetches intraday bars from the Alpaca market-data API
type AlpacaProvider struct {
	client *marketdata.Client
	feed   string
	tz     *timezone.Resolver
	zone   string
}

// NewAlpacaProvider creates an AlpacaProvider with the given credentials
func NewAlpacaProvider(cfg ProviderConfig) *AlpacaProvider {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	feed := cfg.Feed
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaProvider{
		client: marketdata.NewClient(opts),
		feed:   feed,
		tz:     timezone.NewResolver(),
		zone:   "America/New_York",
	}
}

// GetName returns the provider name
func (p *AlpacaProvider) GetName() string { return "alpaca" }

// FetchBars fetches minute bars for the symbol between two exchange-local
// calendar dates (inclusive). SDK bar timestamps are absolute; they are
// re-serialized as civil timestamps in the exchange timezone, the shape
// the normalizer expects from every vendor.
func (p *AlpacaProvider) FetchBars(ctx context.Context, symbol, fromDate, toDate string) ([]models.RawBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	start, err := p.tz.ToInstant(fromDate+"T00:00:00", p.zone)
	if err != nil {
		return nil, fmt.Errorf("%w: bad from date %q: %v", ErrFetchFailed, fromDate, err)
	}
	end, err := p.tz.ToInstant(toDate+"T23:59:59", p.zone)
	if err != nil {
		return nil, fmt.Errorf("%w: bad to date %q: %v", ErrFetchFailed, toDate, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	alpacaBars, err := p.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneMin,
		Start:     start,
		End:       end,
		Feed:      marketdata.Feed(p.feed),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	bars := make([]models.RawBar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, models.RawBar{
			Timestamp: p.tz.FormatCivil(ab.Timestamp, p.zone),
			Open:      ab.Open,
			Close:     ab.Close,
			High:      ab.High,
			Low:       ab.Low,
			Volume:    int64(ab.Volume),
		})
	}
	return bars, nil
}
