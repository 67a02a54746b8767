package simulator

import (
	"testing"
	"time"

	"RecurringInvest/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func series(ticks ...model.Tick) *model.PriceSeries {
	return model.NewPriceSeries(ticks)
}

func tickAt(y int, m time.Month, d int, price float64) model.Tick {
	return model.Tick{Date: day(y, m, d), Open: price, Close: price}
}

func TestResolveTradingDay_ExactMatch(t *testing.T) {
	s := series(tickAt(2024, 1, 2, 50))
	got, price, ok := resolveTradingDay(day(2024, 1, 2), s)
	if !ok || price != 50 || got.Day() != 2 {
		t.Fatalf("expected exact match at price 50, got (%v, %v, %v)", got, price, ok)
	}
}

// A forward match wins over a nearer backward one: the scheduled cash flow
// belongs to the soonest actual session.
func TestResolveTradingDay_ForwardPreferred(t *testing.T) {
	s := series(tickAt(2024, 1, 5, 10), tickAt(2024, 1, 8, 20))
	got, price, ok := resolveTradingDay(day(2024, 1, 6), s)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if got.Day() != 8 || price != 20 {
		t.Errorf("expected forward match Jan 8 @ 20, got %s @ %v", got.Format(model.DateFormat), price)
	}
}

func TestResolveTradingDay_BackwardFallback(t *testing.T) {
	s := series(tickAt(2024, 1, 5, 10))
	got, price, ok := resolveTradingDay(day(2024, 1, 9), s)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if got.Day() != 5 || price != 10 {
		t.Errorf("expected backward match Jan 5 @ 10, got %s @ %v", got.Format(model.DateFormat), price)
	}
}

func TestResolveTradingDay_WindowBoundary(t *testing.T) {
	s := series(tickAt(2024, 1, 1, 10))
	// 7 days back is inside the window, 8 days back is not.
	if _, _, ok := resolveTradingDay(day(2024, 1, 8), s); !ok {
		t.Error("expected resolution at 7-day backward boundary")
	}
	if _, _, ok := resolveTradingDay(day(2024, 1, 9), s); ok {
		t.Error("expected no resolution 8 days out")
	}
}

func TestResolveTradingDay_Unresolved(t *testing.T) {
	s := series(tickAt(2024, 1, 1, 10))
	_, _, ok := resolveTradingDay(day(2024, 2, 1), s)
	if ok {
		t.Error("expected unresolved outside the search window")
	}
}
