package data

import (
	"sort"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
	"github.com/mohamedkhairy/chart-engine/pkg/logger"
)

// Normalizer converts raw vendor bars into normalized bars with resolved
// instants. One bad bar never aborts a calculation; unparsable bars are
// dropped.
type Normalizer struct {
	tz   *timezone.Resolver
	zone string
}

// NewNormalizer creates a Normalizer resolving civil timestamps in the
// given timezone
func NewNormalizer(tz *timezone.Resolver, zone string) *Normalizer {
	return &Normalizer{tz: tz, zone: zone}
}

// NormalizeBars parses each raw bar's civil timestamp, drops bars that
// cannot be parsed or whose resolved instant lies after now (vendors
// occasionally return speculative future bars), and sorts ascending by
// instant.
func (n *Normalizer) NormalizeBars(raw []models.RawBar, now time.Time) []models.Bar {
	bars := make([]models.Bar, 0, len(raw))
	dropped := 0
	for _, rb := range raw {
		instant, err := n.tz.ToInstant(rb.Timestamp, n.zone)
		if err != nil {
			dropped++
			continue
		}
		if instant.After(now) {
			dropped++
			continue
		}
		bars = append(bars, models.Bar{
			Open:  rb.Open,
			Close: rb.Close,
			Civil: rb.Timestamp,
			Time:  instant,
		})
	}
	if dropped > 0 {
		logger.Debug("dropped bars during normalization",
			logger.Int("dropped", dropped),
			logger.Int("kept", len(bars)),
		)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// LatestSessionBars keeps only the bars belonging to the most recent
// exchange-local calendar day present, defending against fetches that
// span more than one session. The day key of the kept session is
// returned alongside the bars.
func (n *Normalizer) LatestSessionBars(bars []models.Bar) ([]models.Bar, string) {
	if len(bars) == 0 {
		return nil, ""
	}

	dayOf := func(b models.Bar) string {
		return n.tz.ToCivil(b.Time, n.zone).Format("2006-01-02")
	}

	latest := dayOf(bars[len(bars)-1])
	kept := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if dayOf(b) == latest {
			kept = append(kept, b)
		}
	}
	return kept, latest
}
