package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// ChartSpan identifies the coarse time span a chart requests
type ChartSpan string

const (
	Span1D ChartSpan = "1D"
	Span5D ChartSpan = "5D"
	Span1M ChartSpan = "1M"
	Span3M ChartSpan = "3M"
	Span6M ChartSpan = "6M"
	Span1Y ChartSpan = "1Y"
	Span5Y ChartSpan = "5Y"
)

// ParseChartSpan parses a chart span string
func ParseChartSpan(s string) (ChartSpan, error) {
	switch ChartSpan(s) {
	case Span1D, Span5D, Span1M, Span3M, Span6M, Span1Y, Span5Y:
		return ChartSpan(s), nil
	}
	return "", ErrInvalidChartSpan
}

// HolidayStatus describes how a holiday affects the trading session
type HolidayStatus string

const (
	// HolidayClosed means the exchange is closed for the entire day
	HolidayClosed HolidayStatus = "closed"
	// HolidayEarlyClose means the exchange closes early (same open, shorter session)
	HolidayEarlyClose HolidayStatus = "early_close"
)

// Holiday is one entry of the exchange holiday calendar.
// Entries are loaded once per process and never mutated.
type Holiday struct {
	Date      string        `yaml:"date" json:"date"` // YYYY-MM-DD, exchange-local calendar day
	Name      string        `yaml:"name" json:"name"`
	Status    HolidayStatus `yaml:"status" json:"status"`
	CloseTime string        `yaml:"closeTime,omitempty" json:"close_time,omitempty"` // HH:MM, early_close only
	Exchanges []string      `yaml:"exchanges" json:"exchanges"`
}

// AppliesTo reports whether the holiday covers the given exchange
func (h *Holiday) AppliesTo(exchange string) bool {
	for _, e := range h.Exchanges {
		if e == exchange {
			return true
		}
	}
	return false
}

// RawBar is a bar record as received from a market data vendor.
// The timestamp is civil time in the exchange timezone and may arrive
// under any of the field names "t", "timestamp" or "date". Open and
// close may be JSON numbers or numeric strings depending on the vendor.
// Extra vendor fields are ignored.
type RawBar struct {
	Timestamp string
	Open      float64
	Close     float64
	High      float64
	Low       float64
	Volume    int64
}

// rawBarJSON mirrors the vendor wire shape with tolerant field types
type rawBarJSON struct {
	T         json.RawMessage `json:"t"`
	Timestamp json.RawMessage `json:"timestamp"`
	Date      json.RawMessage `json:"date"`
	Open      json.RawMessage `json:"open"`
	Close     json.RawMessage `json:"close"`
	High      json.RawMessage `json:"high"`
	Low       json.RawMessage `json:"low"`
	Volume    json.RawMessage `json:"volume"`
}

// UnmarshalJSON decodes a vendor bar, accepting the three timestamp field
// names and either numeric or string-encoded prices
func (b *RawBar) UnmarshalJSON(data []byte) error {
	var raw rawBarJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, ts := range []json.RawMessage{raw.T, raw.Timestamp, raw.Date} {
		if len(ts) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(ts, &s); err == nil && s != "" {
			b.Timestamp = s
			break
		}
	}

	b.Open = flexFloat(raw.Open)
	b.Close = flexFloat(raw.Close)
	b.High = flexFloat(raw.High)
	b.Low = flexFloat(raw.Low)
	b.Volume = int64(flexFloat(raw.Volume))
	return nil
}

// flexFloat decodes a JSON number or a numeric string; anything else is zero
func flexFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

// Bar is a normalized bar: the vendor's open/close plus the civil
// timestamp resolved to an absolute instant in the exchange timezone
type Bar struct {
	Open  float64   `json:"open"`
	Close float64   `json:"close"`
	Civil string    `json:"civil"` // timestamp as received
	Time  time.Time `json:"time"`  // resolved instant
}

// Validate validates a normalized Bar
func (b *Bar) Validate() error {
	if b.Time.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.Open < 0 || b.Close < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// CacheEntry is one immutable cached percentage computation.
// Entries are replaced or evicted whole, never mutated in place.
type CacheEntry struct {
	Symbol     string    `json:"symbol"`
	Percentage float64   `json:"percentage"`
	ComputedAt time.Time `json:"computed_at"`
}

// Expired reports whether the entry is past its time-to-live at now
func (e *CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.ComputedAt) >= ttl
}
