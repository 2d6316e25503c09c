package calendar

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mohamedkhairy/chart-engine/internal/models"
)

//go:embed holidays.yaml
var holidayYAML []byte

// maxLookback bounds the backward walk in LastTradingDay. 15 days clears
// any realistic cluster of weekends plus consecutive holidays.
const maxLookback = 15

// Calendar answers open/closed/early-close questions for the modeled
// exchanges. The holiday table is static, versioned by year, and loaded
// once at construction; a year with no table entry degrades to "open
// every weekday".
type Calendar struct {
	byDate map[string][]models.Holiday
	years  map[int]bool
}

// New builds a Calendar from the embedded holiday table
func New() (*Calendar, error) {
	var table map[int][]models.Holiday
	if err := yaml.Unmarshal(holidayYAML, &table); err != nil {
		return nil, fmt.Errorf("parsing holiday table: %w", err)
	}

	c := &Calendar{
		byDate: make(map[string][]models.Holiday),
		years:  make(map[int]bool, len(table)),
	}
	for year, holidays := range table {
		c.years[year] = true
		for _, h := range holidays {
			c.byDate[h.Date] = append(c.byDate[h.Date], h)
		}
	}
	return c, nil
}

// DateKey formats a date as a zero-padded YYYY-MM-DD key from its civil
// calendar fields. Calendar-day comparison goes through these keys so a
// reader's local clock representation can never shift the day.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// holidayFor returns the holiday record for (date, exchange), if any
func (c *Calendar) holidayFor(date time.Time, exchange string) (models.Holiday, bool) {
	for _, h := range c.byDate[DateKey(date)] {
		if h.AppliesTo(exchange) {
			return h, true
		}
	}
	return models.Holiday{}, false
}

// IsHoliday reports whether a closed-status holiday exists for the
// date and exchange. Early-close days are not holidays in this sense.
func (c *Calendar) IsHoliday(date time.Time, exchange string) bool {
	h, ok := c.holidayFor(date, exchange)
	return ok && h.Status == models.HolidayClosed
}

// EarlyClose returns the early-close record for the date and exchange,
// if one exists
func (c *Calendar) EarlyClose(date time.Time, exchange string) (models.Holiday, bool) {
	h, ok := c.holidayFor(date, exchange)
	if ok && h.Status == models.HolidayEarlyClose {
		return h, true
	}
	return models.Holiday{}, false
}

// IsOpen reports whether the exchange trades on the given civil
// calendar date. Weekends and closed holidays are the only closed days;
// early-close days still count as open.
func (c *Calendar) IsOpen(date time.Time, exchange string) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(date, exchange)
}

// LastTradingDay steps from back by daysBack calendar days, then keeps
// stepping backward one day at a time until it lands on an open day.
// The walk is bounded so a malformed table can never hang the caller.
func (c *Calendar) LastTradingDay(from time.Time, daysBack int, exchange string) time.Time {
	d := from.AddDate(0, 0, -daysBack)
	for i := 0; i < maxLookback; i++ {
		if c.IsOpen(d, exchange) {
			return d
		}
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// HasYear reports whether the holiday table carries entries for a year.
// Resolution still works for uncovered years, just without holidays.
func (c *Calendar) HasYear(year int) bool {
	return c.years[year]
}
