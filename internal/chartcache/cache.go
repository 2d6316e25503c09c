package chartcache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/data"
	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/internal/session"
	"github.com/mohamedkhairy/chart-engine/pkg/logger"
)

// DefaultTTL is how long a computed percentage stays fresh. Charts are
// display-only; a multi-minute window is intentional.
const DefaultTTL = 5 * time.Minute

// PercentCache computes and caches a symbol's percentage price change
// for its currently-resolved trading session. Entries are whole-value
// replacements keyed by symbol; one symbol's failure never touches
// another's entry. Failures are never cached, so the next call retries.
type PercentCache struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry

	ttl      time.Duration
	now      func() time.Time
	provider data.BarProvider
	ranges   *session.RangeBuilder
	norm     *data.Normalizer
}

// Option configures a PercentCache
type Option func(*PercentCache)

// WithTTL overrides the cache TTL
func WithTTL(ttl time.Duration) Option {
	return func(c *PercentCache) { c.ttl = ttl }
}

// WithClock overrides the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(c *PercentCache) { c.now = now }
}

// New creates a PercentCache on top of a bar provider, a date-range
// builder, and a bar normalizer
func New(provider data.BarProvider, ranges *session.RangeBuilder, norm *data.Normalizer, opts ...Option) *PercentCache {
	c := &PercentCache{
		entries:  make(map[string]models.CacheEntry),
		ttl:      DefaultTTL,
		now:      time.Now,
		provider: provider,
		ranges:   ranges,
		norm:     norm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultMu    sync.Mutex
	defaultCache *PercentCache
)

// SetDefault installs the process-wide shared instance. Hosts that want
// many UI widgets to share one cache call this once at startup;
// everything else should hold a *PercentCache directly.
func SetDefault(c *PercentCache) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCache = c
}

// Default returns the process-wide shared instance, or nil if none was
// installed
func Default() *PercentCache {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultCache
}

// ChangePercent returns the symbol's percentage price change over its
// currently-resolved trading session. The second return value is false
// when the percentage is temporarily unknown: fetch failure, unparsable
// bars, fewer than two bars in the session, or a zero opening price.
// Callers must not treat false as zero.
//
// The operation never returns an error and never panics; every internal
// failure is logged and collapses into the single "unknown" outcome.
func (c *PercentCache) ChangePercent(ctx context.Context, symbol string) (float64, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, false
	}
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()
	if ok && !entry.Expired(now, c.ttl) {
		cacheHits.Inc()
		return entry.Percentage, true
	}
	cacheMisses.Inc()

	rng, err := c.ranges.Range(models.Span1D, now)
	if err != nil {
		logger.Warn("date range computation failed",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		return 0, false
	}

	fetchRequests.Inc()
	raw, err := c.provider.FetchBars(ctx, symbol, rng.From, rng.To)
	if err != nil {
		fetchErrors.WithLabelValues("fetch").Inc()
		logger.Warn("bar fetch failed",
			logger.String("symbol", symbol),
			logger.String("from", rng.From),
			logger.String("to", rng.To),
			logger.ErrorField(err),
		)
		return 0, false
	}

	bars := c.norm.NormalizeBars(raw, now)
	bars, day := c.norm.LatestSessionBars(bars)
	if day != "" && day != rng.To {
		// The fetch returned a session other than the one requested.
		// Surfaced as an anomaly; the computation still uses the most
		// recent day present.
		fetchErrors.WithLabelValues("session_mismatch").Inc()
		logger.Warn("fetched session differs from resolved trading day",
			logger.String("symbol", symbol),
			logger.String("requested", rng.To),
			logger.String("received", day),
		)
	}

	if len(bars) < 2 {
		// Expected for newly listed or thin symbols right after the
		// open; not an error.
		logger.Debug("insufficient bars for percentage",
			logger.String("symbol", symbol),
			logger.Int("bars", len(bars)),
		)
		return 0, false
	}

	open := bars[0].Open
	if open == 0 {
		logger.Warn("zero opening price", logger.String("symbol", symbol))
		return 0, false
	}
	pct := (bars[len(bars)-1].Close - open) / open * 100

	c.mu.Lock()
	c.entries[symbol] = models.CacheEntry{Symbol: symbol, Percentage: pct, ComputedAt: now}
	cacheSize.Set(float64(len(c.entries)))
	c.mu.Unlock()

	return pct, true
}

// ClearCache empties the whole mapping, every symbol for every caller
// sharing this instance
func (c *PercentCache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]models.CacheEntry)
	cacheSize.Set(0)
}

// InvalidateSymbol removes exactly one symbol's entry
func (c *PercentCache) InvalidateSymbol(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, symbol)
	cacheSize.Set(float64(len(c.entries)))
}

// CacheStats is a read-only view of the cache for diagnostics and tests
type CacheStats struct {
	Size    int      `json:"size"`
	Entries []string `json:"entries"`
}

// Stats returns the cached symbols, sorted for stable output
func (c *PercentCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]string, 0, len(c.entries))
	for symbol := range c.entries {
		entries = append(entries, symbol)
	}
	sort.Strings(entries)
	return CacheStats{Size: len(entries), Entries: entries}
}
