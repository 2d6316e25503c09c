package session

import (
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/chart-engine/internal/calendar"
	"github.com/mohamedkhairy/chart-engine/internal/models"
	"github.com/mohamedkhairy/chart-engine/internal/timezone"
)

func newTestRangeBuilder(t *testing.T) *RangeBuilder {
	t.Helper()
	cal, err := calendar.New()
	if err != nil {
		t.Fatalf("calendar.New() error = %v", err)
	}
	return NewRangeBuilder(NewResolver(cal, timezone.NewResolver(), "NYSE"), cal)
}

func TestRange(t *testing.T) {
	b := newTestRangeBuilder(t)
	ny := eastern(t)

	// Monday 2025-07-07 at 13:00 ET: resolved trading day is the same day
	now := time.Date(2025, 7, 7, 13, 0, 0, 0, ny)

	tests := []struct {
		name     string
		span     models.ChartSpan
		wantFrom string
		wantTo   string
	}{
		{"1D is a single session", models.Span1D, "2025-07-07", "2025-07-07"},
		{"5D steps back five calendar days to Wednesday", models.Span5D, "2025-07-02", "2025-07-07"},
		{"1M snaps June 7 Saturday back to Friday", models.Span1M, "2025-06-06", "2025-07-07"},
		{"3M", models.Span3M, "2025-04-07", "2025-07-07"},
		{"6M", models.Span6M, "2025-01-07", "2025-07-07"},
		{"1Y snaps 2024-07-07 Sunday back to Friday", models.Span1Y, "2024-07-05", "2025-07-07"},
		{"5Y", models.Span5Y, "2020-07-07", "2025-07-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Range(tt.span, now)
			if err != nil {
				t.Fatalf("Range(%s) error = %v", tt.span, err)
			}
			if got.From != tt.wantFrom {
				t.Errorf("From = %s, want %s", got.From, tt.wantFrom)
			}
			if got.To != tt.wantTo {
				t.Errorf("To = %s, want %s", got.To, tt.wantTo)
			}
			if got.From > got.To {
				t.Errorf("From %s exceeds To %s", got.From, got.To)
			}
		})
	}
}

func TestRangePreMarketUsesPriorSession(t *testing.T) {
	b := newTestRangeBuilder(t)
	ny := eastern(t)

	// Before the open on Monday July 7 the authoritative session is
	// Thursday July 3 (holiday plus weekend in between)
	now := time.Date(2025, 7, 7, 8, 0, 0, 0, ny)
	got, err := b.Range(models.Span1D, now)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if got.From != "2025-07-03" || got.To != "2025-07-03" {
		t.Errorf("Range = %+v, want 2025-07-03..2025-07-03", got)
	}
}

func TestRangeNearMidnight(t *testing.T) {
	b := newTestRangeBuilder(t)
	ny := eastern(t)

	// 2025-07-08 00:30 ET is 04:30 UTC on July 8; a UTC-based
	// serialization would emit July 8, but the pre-open resolution must
	// land on July 7 in exchange-local terms.
	now := time.Date(2025, 7, 8, 0, 30, 0, 0, ny)
	got, err := b.Range(models.Span1D, now)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if got.To != "2025-07-07" {
		t.Errorf("To = %s, want 2025-07-07", got.To)
	}
}

func TestRangeInvalidSpan(t *testing.T) {
	b := newTestRangeBuilder(t)
	_, err := b.Range(models.ChartSpan("2W"), time.Now())
	if !errors.Is(err, models.ErrInvalidChartSpan) {
		t.Errorf("error = %v, want ErrInvalidChartSpan", err)
	}
}
