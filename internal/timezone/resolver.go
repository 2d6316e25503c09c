package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/pkg/logger"
)

// supportedZones is the closed set of timezones the engine resolves,
// keyed by canonical IANA identifier. Vendor bar data is civil time in
// one of these zones; anything else falls back to UTC.
var supportedZones = []string{
	"America/New_York",
	"America/Chicago",
	"America/Los_Angeles",
	"UTC",
}

// exchangeZones maps exchange codes to their civil timezone
var exchangeZones = map[string]string{
	"NYSE":   "America/New_York",
	"NASDAQ": "America/New_York",
	"AMEX":   "America/New_York",
	"ARCA":   "America/New_York",
}

// ZoneForExchange returns the civil timezone for an exchange code.
// Unknown exchanges default to Eastern Time; only US sessions are modeled.
func ZoneForExchange(exchange string) string {
	if zone, ok := exchangeZones[strings.ToUpper(exchange)]; ok {
		return zone
	}
	return "America/New_York"
}

// fallbackZone is a fixed-offset description of a supported timezone,
// used only when the platform tz database is unavailable
type fallbackZone struct {
	stdOffset int // seconds east of UTC, standard time
	dstOffset int // seconds east of UTC, daylight time
	stdAbbr   string
	dstAbbr   string
	hasDST    bool
}

var fallbackZones = map[string]fallbackZone{
	"America/New_York":    {stdOffset: -5 * 3600, dstOffset: -4 * 3600, stdAbbr: "EST", dstAbbr: "EDT", hasDST: true},
	"America/Chicago":     {stdOffset: -6 * 3600, dstOffset: -5 * 3600, stdAbbr: "CST", dstAbbr: "CDT", hasDST: true},
	"America/Los_Angeles": {stdOffset: -8 * 3600, dstOffset: -7 * 3600, stdAbbr: "PST", dstAbbr: "PDT", hasDST: true},
	"UTC":                 {stdAbbr: "UTC", dstAbbr: "UTC"},
}

// marketCloseHour is the civil hour assigned to date-only timestamps
const marketCloseHour = 16

// Resolver computes DST-aware offsets for the supported timezones and
// converts vendor civil timestamps into absolute instants
type Resolver struct {
	locs map[string]*time.Location
}

// NewResolver loads the supported timezone locations. A location that
// fails to load is served by the fixed-offset fallback instead; the
// resolver itself never fails to construct.
func NewResolver() *Resolver {
	r := &Resolver{locs: make(map[string]*time.Location, len(supportedZones))}
	for _, name := range supportedZones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			logger.Warn("timezone database lookup failed, using fixed-offset fallback",
				logger.String("timezone", name),
				logger.ErrorField(err),
			)
			continue
		}
		r.locs[name] = loc
	}
	return r
}

// location returns the loaded tz database location for name, if any
func (r *Resolver) location(name string) (*time.Location, bool) {
	loc, ok := r.locs[name]
	return loc, ok
}

// OffsetAt returns the signed (hours, minutes) offset in effect for the
// named timezone at the given instant. Unknown timezones fail closed to
// a zero offset so display-only consumers degrade instead of crashing.
func (r *Resolver) OffsetAt(name string, at time.Time) (int, int) {
	if loc, ok := r.location(name); ok {
		_, off := at.In(loc).Zone()
		return off / 3600, (off % 3600) / 60
	}
	if fz, ok := fallbackZones[name]; ok {
		off := fz.offsetAt(at)
		return off / 3600, (off % 3600) / 60
	}
	logger.Warn("offset lookup for unsupported timezone", logger.String("timezone", name))
	return 0, 0
}

// AbbreviationAt returns the human-readable zone label in effect at the
// given instant ("EDT", "PST"). Falls back to the raw timezone name when
// no lookup succeeds.
func (r *Resolver) AbbreviationAt(name string, at time.Time) string {
	if loc, ok := r.location(name); ok {
		abbr, _ := at.In(loc).Zone()
		if abbr != "" {
			return abbr
		}
	}
	if fz, ok := fallbackZones[name]; ok {
		if fz.hasDST && fz.offsetAt(at) == fz.dstOffset {
			return fz.dstAbbr
		}
		return fz.stdAbbr
	}
	return name
}

// ToInstant resolves a vendor civil timestamp, assumed to be civil time
// in the named timezone, into an absolute instant. Three shapes are
// accepted: "2006-01-02T15:04:05", "2006-01-02 15:04:05", and a bare
// date, which is interpreted as the 16:00 market close. Returns
// models.ErrMalformedTimestamp when the input cannot be decomposed into
// at least year/month/day.
//
// The offset is always derived from the parsed date, never from the
// caller's current date; a DST transition between "now" and the
// timestamp would otherwise shift the instant by an hour.
func (r *Resolver) ToInstant(civil, name string) (time.Time, error) {
	cf, err := parseCivil(civil)
	if err != nil {
		return time.Time{}, err
	}

	if loc, ok := r.location(name); ok {
		return time.Date(cf.year, cf.month, cf.day, cf.hour, cf.min, cf.sec, 0, loc), nil
	}

	fz, ok := fallbackZones[name]
	if !ok {
		logger.Warn("resolving civil timestamp in unsupported timezone as UTC",
			logger.String("timezone", name),
		)
		fz = fallbackZones["UTC"]
	}
	off, abbr := fz.offsetForDate(cf.year, cf.month, cf.day)
	return time.Date(cf.year, cf.month, cf.day, cf.hour, cf.min, cf.sec, 0, time.FixedZone(abbr, off)), nil
}

// ToCivil converts an instant into the named timezone's civil clock.
// The returned time's calendar fields (Year, Hour, Weekday, ...) are the
// exchange-local civil fields.
func (r *Resolver) ToCivil(t time.Time, name string) time.Time {
	if loc, ok := r.location(name); ok {
		return t.In(loc)
	}
	if fz, ok := fallbackZones[name]; ok {
		off := fz.offsetAt(t)
		abbr := fz.stdAbbr
		if fz.hasDST && off == fz.dstOffset {
			abbr = fz.dstAbbr
		}
		return t.In(time.FixedZone(abbr, off))
	}
	return t.UTC()
}

// FormatCivil re-serializes an instant as a civil timestamp in the named
// timezone, the inverse of ToInstant for full date-time inputs
func (r *Resolver) FormatCivil(t time.Time, name string) string {
	return r.ToCivil(t, name).Format("2006-01-02T15:04:05")
}

// civilFields is a decomposed civil timestamp with no attached zone
type civilFields struct {
	year  int
	month time.Month
	day   int
	hour  int
	min   int
	sec   int
}

// parseCivil decomposes one of the three accepted civil timestamp shapes.
// Date-only input resolves to the market close (16:00:00).
func parseCivil(s string) (civilFields, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civilFields{}, fmt.Errorf("%w: empty input", models.ErrMalformedTimestamp)
	}

	datePart := s
	timePart := ""
	if i := strings.IndexAny(s, "T "); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}

	dp := strings.Split(datePart, "-")
	if len(dp) != 3 {
		return civilFields{}, fmt.Errorf("%w: %q", models.ErrMalformedTimestamp, s)
	}
	year, err1 := strconv.Atoi(dp[0])
	month, err2 := strconv.Atoi(dp[1])
	day, err3 := strconv.Atoi(dp[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return civilFields{}, fmt.Errorf("%w: %q", models.ErrMalformedTimestamp, s)
	}

	cf := civilFields{year: year, month: time.Month(month), day: day, hour: marketCloseHour}
	if timePart == "" {
		return cf, nil
	}

	// Tolerate a trailing fractional-second or zone suffix some vendors append
	if i := strings.IndexAny(timePart, ".Z+"); i >= 0 {
		timePart = timePart[:i]
	}
	tp := strings.Split(timePart, ":")
	if len(tp) < 2 || len(tp) > 3 {
		return civilFields{}, fmt.Errorf("%w: %q", models.ErrMalformedTimestamp, s)
	}
	hour, err1 := strconv.Atoi(tp[0])
	min, err2 := strconv.Atoi(tp[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || min < 0 || min > 59 {
		return civilFields{}, fmt.Errorf("%w: %q", models.ErrMalformedTimestamp, s)
	}
	cf.hour, cf.min, cf.sec = hour, min, 0
	if len(tp) == 3 {
		sec, err := strconv.Atoi(tp[2])
		if err != nil || sec < 0 || sec > 59 {
			return civilFields{}, fmt.Errorf("%w: %q", models.ErrMalformedTimestamp, s)
		}
		cf.sec = sec
	}
	return cf, nil
}

// offsetAt returns the offset in effect at an absolute instant.
// The instant is first shifted by the standard offset to obtain a draft
// civil date, and the DST rule is then applied to that date.
func (z fallbackZone) offsetAt(at time.Time) int {
	if !z.hasDST {
		return z.stdOffset
	}
	draft := at.UTC().Add(time.Duration(z.stdOffset) * time.Second)
	if usDSTActive(draft.Year(), draft.Month(), draft.Day()) {
		return z.dstOffset
	}
	return z.stdOffset
}

// offsetForDate returns the offset and abbreviation for a civil date
func (z fallbackZone) offsetForDate(year int, month time.Month, day int) (int, string) {
	if z.hasDST && usDSTActive(year, month, day) {
		return z.dstOffset, z.dstAbbr
	}
	return z.stdOffset, z.stdAbbr
}

// usDSTActive applies the US daylight-saving rule at day granularity:
// DST runs from the second Sunday of March through the first Sunday of
// November. The 2 AM transition hour is below the resolution this
// engine needs (daily market data).
func usDSTActive(year int, month time.Month, day int) bool {
	switch {
	case month > time.March && month < time.November:
		return true
	case month == time.March:
		return day >= nthSunday(year, time.March, 2)
	case month == time.November:
		return day < nthSunday(year, time.November, 1)
	default:
		return false
	}
}

// nthSunday returns the day of month of the nth Sunday
func nthSunday(year int, month time.Month, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (7 - int(first.Weekday())) % 7 // days until first Sunday
	return 1 + offset + (n-1)*7
}
