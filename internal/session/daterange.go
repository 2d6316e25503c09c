package session

import (
	"fmt"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/calendar"
	"github.com/mohamedkhairy/chart-engine/internal/models"
)

// DateRange is a pair of exchange-local calendar days, both inclusive,
// formatted YYYY-MM-DD. From never exceeds To.
type DateRange struct {
	From string
	To   string
}

// RangeBuilder turns a coarse chart span into concrete calendar dates,
// stepping backward across weekends and holidays
type RangeBuilder struct {
	resolver *Resolver
	cal      *calendar.Calendar
}

// NewRangeBuilder creates a RangeBuilder on top of a session resolver
func NewRangeBuilder(resolver *Resolver, cal *calendar.Calendar) *RangeBuilder {
	return &RangeBuilder{resolver: resolver, cal: cal}
}

// Range computes the start and end calendar dates for a chart span at
// the given instant. The end date is the resolved trading day; the start
// date steps back by trading days (1D, 5D) or by a calendar interval
// snapped to the nearest prior trading day (1M and longer).
//
// Dates are formatted from civil calendar fields in the exchange zone,
// never from a UTC serialization, so instants near midnight cannot shift
// the day.
func (b *RangeBuilder) Range(span models.ChartSpan, now time.Time) (DateRange, error) {
	res := b.resolver.Resolve(now)
	to := res.TradingDay
	exchange := b.resolver.Exchange()

	var from time.Time
	switch span {
	case models.Span1D:
		from = to
	case models.Span5D:
		from = b.cal.LastTradingDay(to, 5, exchange)
	case models.Span1M:
		from = b.cal.LastTradingDay(to.AddDate(0, -1, 0), 0, exchange)
	case models.Span3M:
		from = b.cal.LastTradingDay(to.AddDate(0, -3, 0), 0, exchange)
	case models.Span6M:
		from = b.cal.LastTradingDay(to.AddDate(0, -6, 0), 0, exchange)
	case models.Span1Y:
		from = b.cal.LastTradingDay(to.AddDate(-1, 0, 0), 0, exchange)
	case models.Span5Y:
		from = b.cal.LastTradingDay(to.AddDate(-5, 0, 0), 0, exchange)
	default:
		return DateRange{}, fmt.Errorf("%w: %q", models.ErrInvalidChartSpan, span)
	}

	return DateRange{From: calendar.DateKey(from), To: calendar.DateKey(to)}, nil
}
