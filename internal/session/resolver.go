package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/calendar"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
)

// State represents the current market session state
type State string

const (
	StatePreMarket  State = "premarket"
	StateMarket     State = "market"
	StateAfterHours State = "afterhours"
	StateClosed     State = "closed"
)

// Regular session boundaries in minutes since civil midnight
const (
	openMinutes  = 9*60 + 30
	closeMinutes = 16 * 60
)

// Resolution is the answer to "whose data should a chart display now":
// a session state and the single authoritative trading day. FullSession
// distinguishes the two branches of the resolution rule: before the open
// or on a closed day the resolved day's complete session is shown; at or
// after the open on a trading day the window is the current, possibly
// partial, session.
type Resolution struct {
	State       State
	TradingDay  time.Time // civil midnight in the exchange timezone
	FullSession bool
}

// Resolver classifies instants into session states and resolves the
// authoritative trading day for display
type Resolver struct {
	cal      *calendar.Calendar
	tz       *timezone.Resolver
	exchange string
	zone     string
	now      func() time.Time
}

// NewResolver creates a Resolver for the given exchange
func NewResolver(cal *calendar.Calendar, tz *timezone.Resolver, exchange string) *Resolver {
	return &Resolver{
		cal:      cal,
		tz:       tz,
		exchange: exchange,
		zone:     timezone.ZoneForExchange(exchange),
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Exchange returns the exchange code this resolver models
func (r *Resolver) Exchange() string { return r.exchange }

// Zone returns the exchange's civil timezone name
func (r *Resolver) Zone() string { return r.zone }

// ResolveNow resolves the current instant
func (r *Resolver) ResolveNow() Resolution {
	return r.Resolve(r.now())
}

// Resolve classifies the given instant and resolves the trading day
// whose data is authoritative for it.
//
// Before the open, or on a weekend/holiday, the most recent prior
// trading day's complete session is authoritative; at or after the open
// on a valid trading day, the day itself is. The resolved day is always
// a day the calendar reports open.
func (r *Resolver) Resolve(now time.Time) Resolution {
	civil := r.tz.ToCivil(now, r.zone)
	civilDate := time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, civil.Location())

	valid := r.cal.IsOpen(civilDate, r.exchange)
	hm := civil.Hour()*60 + civil.Minute()

	if hm < openMinutes || !valid {
		daysBack := 0
		if valid {
			daysBack = 1
		}
		state := StateClosed
		if valid {
			state = StatePreMarket
		}
		return Resolution{
			State:       state,
			TradingDay:  r.cal.LastTradingDay(civilDate, daysBack, r.exchange),
			FullSession: true,
		}
	}

	state := StateMarket
	if hm >= r.sessionEndMinutes(civilDate) {
		state = StateAfterHours
	}
	return Resolution{State: state, TradingDay: civilDate, FullSession: false}
}

// sessionEndMinutes returns the regular session end for a trading day,
// honoring early closes
func (r *Resolver) sessionEndMinutes(date time.Time) int {
	if h, ok := r.cal.EarlyClose(date, r.exchange); ok {
		if hm, ok := parseClockMinutes(h.CloseTime); ok {
			return hm
		}
	}
	return closeMinutes
}

// parseClockMinutes parses "HH:MM" into minutes since midnight
func parseClockMinutes(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, false
	}
	return hour*60 + min, true
}
