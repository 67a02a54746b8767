// Package simulator reconstructs the purchase history of a recurring
// investment plan: a stateful fold over the contribution schedule that
// buys whole shares at resolved trading-day prices and carries unspent
// cash forward across intervals.
package simulator

import (
	"fmt"
	"math"
	"time"

	"RecurringInvest/internal/model"
)

// Simulate folds over the scheduled dates in order. Per date: resolve the
// trading day, add the fixed contribution to the running balance, buy
// whole shares the contribution affords, then — when spendSurplus is set —
// buy whole shares the remaining balance affords. Unresolved dates invest
// nothing; their contribution stays in the balance.
func Simulate(dates []time.Time, series *model.PriceSeries, contribution float64, spendSurplus bool) ([]model.PurchaseEvent, error) {
	if contribution <= 0 {
		return nil, fmt.Errorf("%w: got %v", model.ErrInvalidContribution, contribution)
	}

	var (
		balance    float64
		totalSpent float64
	)
	events := make([]model.PurchaseEvent, 0, len(dates))

	for _, nominal := range dates {
		ev := model.PurchaseEvent{NominalDate: nominal, TradingDate: nominal}
		balance += contribution

		if day, price, ok := resolveTradingDay(nominal, series); ok && price > 0 {
			ev.TradingDate = day
			p := price
			ev.Price = &p

			if n := int64(math.Floor(contribution / price)); n > 0 {
				cost := float64(n) * price
				balance -= cost
				totalSpent += cost
				ev.Shares += n
				ev.Spent += cost
			}
			if spendSurplus && balance >= price {
				if n := int64(math.Floor(balance / price)); n > 0 {
					cost := float64(n) * price
					balance -= cost
					totalSpent += cost
					ev.Shares += n
					ev.Spent += cost
				}
			}
		}

		ev.BalanceAfter = balance
		ev.CumulativeSpent = totalSpent
		events = append(events, ev)
	}
	return events, nil
}
