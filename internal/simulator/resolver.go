package simulator

import (
	"time"

	"RecurringInvest/internal/model"
)

// searchWindowDays bounds the trading-day search in each direction.
const searchWindowDays = 7

// resolveTradingDay maps a nominal date to the nearest date carrying a
// price. Exact match first, then forward 1..7 days so the scheduled cash
// flow lands on the soonest actual session, then backward 1..7 days. The
// third return is false when no date within the window has a price.
func resolveTradingDay(nominal time.Time, series *model.PriceSeries) (time.Time, float64, bool) {
	if p, ok := series.Price(nominal); ok {
		return nominal, p, true
	}
	for i := 1; i <= searchWindowDays; i++ {
		d := nominal.AddDate(0, 0, i)
		if p, ok := series.Price(d); ok {
			return d, p, true
		}
	}
	for i := 1; i <= searchWindowDays; i++ {
		d := nominal.AddDate(0, 0, -i)
		if p, ok := series.Price(d); ok {
			return d, p, true
		}
	}
	return time.Time{}, 0, false
}
