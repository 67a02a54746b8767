package simulator

import (
	"math"

	"RecurringInvest/internal/model"
)

// Aggregate reduces the event sequence into summary metrics. currentPrice
// may be nil when the valuation lookup failed; the valuation fields stay
// nil then instead of reporting zero.
//
// Profit keeps the original display convention: the non-negative magnitude
// of the delta on gains, the raw (negative) delta otherwise.
func Aggregate(events []model.PurchaseEvent, currentPrice *float64) model.SimulationResult {
	var res model.SimulationResult
	for _, ev := range events {
		res.TotalShares += ev.Shares
		res.TotalSpent += ev.Spent
	}
	if res.TotalShares > 0 {
		res.DollarCostAverage = res.TotalSpent / float64(res.TotalShares)
	}

	if currentPrice != nil {
		cp := *currentPrice
		value := float64(res.TotalShares) * cp
		profit := value - res.TotalSpent
		if value > res.TotalSpent {
			profit = math.Abs(value - res.TotalSpent)
		}
		res.CurrentPrice = &cp
		res.PositionValue = &value
		res.Profit = &profit
	}
	return res
}
