package calendar

import (
	"testing"
	"time"
)

func mustNew(t *testing.T) *Calendar {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	c := mustNew(t)

	tests := []struct {
		name     string
		date     time.Time
		exchange string
		want     bool
	}{
		{"Independence Day 2025", day(2025, time.July, 4), "NYSE", true},
		{"Christmas 2024", day(2024, time.December, 25), "NASDAQ", true},
		{"Thanksgiving 2026", day(2026, time.November, 26), "NYSE", true},
		{"regular trading day", day(2025, time.July, 7), "NYSE", false},
		{"early close is not a holiday", day(2025, time.July, 3), "NYSE", false},
		{"unlisted exchange", day(2025, time.July, 4), "TSX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsHoliday(tt.date, tt.exchange); got != tt.want {
				t.Errorf("IsHoliday(%s, %s) = %v, want %v", DateKey(tt.date), tt.exchange, got, tt.want)
			}
		})
	}
}

func TestEarlyClose(t *testing.T) {
	c := mustNew(t)

	h, ok := c.EarlyClose(day(2025, time.July, 3), "NYSE")
	if !ok {
		t.Fatal("expected early close on 2025-07-03")
	}
	if h.CloseTime != "13:00" {
		t.Errorf("CloseTime = %q, want 13:00", h.CloseTime)
	}

	if _, ok := c.EarlyClose(day(2025, time.July, 4), "NYSE"); ok {
		t.Error("full holiday must not report an early close")
	}
	if _, ok := c.EarlyClose(day(2025, time.July, 7), "NYSE"); ok {
		t.Error("regular day must not report an early close")
	}
}

func TestIsOpen(t *testing.T) {
	c := mustNew(t)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"regular Monday", day(2025, time.July, 7), true},
		{"Saturday", day(2025, time.July, 5), false},
		{"Sunday", day(2025, time.July, 6), false},
		{"full holiday", day(2025, time.July, 4), false},
		{"early close day is open", day(2025, time.July, 3), true},
		{"uncovered year weekday degrades to open", day(2030, time.July, 4), true},
		{"uncovered year weekend stays closed", day(2030, time.July, 6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsOpen(tt.date, "NYSE"); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", DateKey(tt.date), got, tt.want)
			}
		})
	}
}

func TestLastTradingDay(t *testing.T) {
	c := mustNew(t)

	tests := []struct {
		name     string
		from     time.Time
		daysBack int
		want     string
	}{
		{"open day, zero back", day(2025, time.July, 7), 0, "2025-07-07"},
		{"Saturday snaps to Thursday over the July 4 holiday", day(2025, time.July, 5), 0, "2025-07-03"},
		{"holiday snaps to prior early-close day", day(2025, time.July, 4), 0, "2025-07-03"},
		{"Monday one back crosses the weekend", day(2025, time.July, 7), 1, "2025-07-03"},
		{"five back from mid month", day(2025, time.July, 18), 5, "2025-07-11"},
		{"New Year cluster", day(2025, time.January, 1), 0, "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.LastTradingDay(tt.from, tt.daysBack, "NYSE")
			if DateKey(got) != tt.want {
				t.Errorf("LastTradingDay(%s, %d) = %s, want %s", DateKey(tt.from), tt.daysBack, DateKey(got), tt.want)
			}
			if !c.IsOpen(got, "NYSE") {
				t.Errorf("LastTradingDay returned a closed day %s", DateKey(got))
			}
		})
	}
}

func TestDateKeyZeroPadding(t *testing.T) {
	if got := DateKey(day(2025, time.March, 5)); got != "2025-03-05" {
		t.Errorf("DateKey = %q, want 2025-03-05", got)
	}
}

func TestHasYear(t *testing.T) {
	c := mustNew(t)
	for _, year := range []int{2024, 2025, 2026} {
		if !c.HasYear(year) {
			t.Errorf("HasYear(%d) = false", year)
		}
	}
	if c.HasYear(2030) {
		t.Error("HasYear(2030) = true")
	}
}
