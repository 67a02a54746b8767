package schedule

import (
	"errors"
	"testing"
	"time"

	"RecurringInvest/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDates_SingleCadence(t *testing.T) {
	dates, err := Dates(day(2024, 3, 15), day(2024, 3, 15), model.CadenceSingle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected exactly 1 date, got %d", len(dates))
	}
	got := dates[0]
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("expected 09:30 local, got %02d:%02d", got.Hour(), got.Minute())
	}
	if got.Location() != Location() {
		t.Errorf("expected market timezone, got %v", got.Location())
	}
}

func TestDates_SingleIgnoresEnd(t *testing.T) {
	dates, err := Dates(day(2024, 1, 1), day(2024, 12, 31), model.CadenceSingle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
	if dates[0].Day() != 1 || dates[0].Month() != time.January {
		t.Errorf("expected start date, got %s", dates[0])
	}
}

func TestDates_InvalidRange(t *testing.T) {
	_, err := Dates(day(2024, 2, 1), day(2024, 1, 1), model.CadenceMonthly)
	if !errors.Is(err, model.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDates_WeeklyInclusiveEnd(t *testing.T) {
	dates, err := Dates(day(2024, 1, 1), day(2024, 1, 15), model.CadenceWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 8, 15}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i, d := range dates {
		if d.Day() != want[i] {
			t.Errorf("date %d: expected day %d, got %d", i, want[i], d.Day())
		}
	}
}

func TestDates_Biweekly(t *testing.T) {
	dates, err := Dates(day(2024, 1, 1), day(2024, 2, 1), model.CadenceBiweekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2024-01-01", "2024-01-15", "2024-01-29"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i, d := range dates {
		if got := d.Format(model.DateFormat); got != want[i] {
			t.Errorf("date %d: expected %s, got %s", i, want[i], got)
		}
	}
}

// The spring-forward transition (2024-03-10 in America/New_York) must not
// move the 09:30 wall clock: the UTC offset has to change per instant.
func TestDates_WeeklyAcrossDSTTransition(t *testing.T) {
	dates, err := Dates(day(2024, 3, 3), day(2024, 3, 24), model.CadenceWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(dates))
	}
	for i, d := range dates {
		if d.Hour() != 9 || d.Minute() != 30 {
			t.Errorf("date %d: expected 09:30 local, got %02d:%02d", i, d.Hour(), d.Minute())
		}
	}
	// EST before the transition, EDT after.
	if got := dates[0].UTC().Hour(); got != 14 {
		t.Errorf("pre-DST date: expected 14:30 UTC, got %02d:30", got)
	}
	if got := dates[2].UTC().Hour(); got != 13 {
		t.Errorf("post-DST date: expected 13:30 UTC, got %02d:30", got)
	}
}

func TestDates_MonthlyAcrossDSTTransition(t *testing.T) {
	dates, err := Dates(day(2024, 1, 15), day(2024, 6, 15), model.CadenceMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 6 {
		t.Fatalf("expected 6 dates, got %d", len(dates))
	}
	if got := dates[0].UTC().Hour(); got != 14 {
		t.Errorf("January date: expected 14:30 UTC, got %02d:30", got)
	}
	if got := dates[5].UTC().Hour(); got != 13 {
		t.Errorf("June date: expected 13:30 UTC, got %02d:30", got)
	}
}

// A day-31 anchor normalizes forward in short months but must not drift
// the anchor for the months that follow.
func TestDates_MonthlyAnchorDayHeld(t *testing.T) {
	dates, err := Dates(day(2024, 1, 31), day(2024, 5, 31), model.CadenceMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2024-01-31", "2024-03-02", "2024-03-31", "2024-05-01", "2024-05-31"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i, d := range dates {
		if got := d.Format(model.DateFormat); got != want[i] {
			t.Errorf("date %d: expected %s, got %s", i, want[i], got)
		}
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Errorf("dates not strictly increasing at index %d", i)
		}
	}
}

func TestDates_UnknownCadence(t *testing.T) {
	_, err := Dates(day(2024, 1, 1), day(2024, 2, 1), model.Cadence("daily"))
	if !errors.Is(err, model.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}
