package model

import (
	"fmt"
	"time"
)

// Cadence is the interval between nominal contribution dates.
type Cadence string

const (
	CadenceMonthly  Cadence = "monthly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceWeekly   Cadence = "weekly"
	CadenceSingle   Cadence = "single"
)

// ParseCadence validates a cadence token.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceMonthly, CadenceBiweekly, CadenceWeekly, CadenceSingle:
		return Cadence(s), nil
	default:
		return "", fmt.Errorf("%w: unknown cadence %q", ErrMissingInput, s)
	}
}

// SimulationRequest is the full input to one simulation run.
type SimulationRequest struct {
	Symbol       string
	Start        time.Time
	End          time.Time
	Cadence      Cadence
	Contribution float64
	SpendSurplus bool
}

// PurchaseEvent is one record per scheduled contribution date. When the
// nominal date could not be matched to a trading day, Price is nil,
// TradingDate equals NominalDate, and no shares are purchased.
type PurchaseEvent struct {
	NominalDate     time.Time
	TradingDate     time.Time
	Price           *float64
	Shares          int64
	Spent           float64
	BalanceAfter    float64
	CumulativeSpent float64
}

// Resolved reports whether the event's nominal date matched a trading day.
func (e PurchaseEvent) Resolved() bool { return e.Price != nil }

// SimulationResult aggregates the event sequence. CurrentPrice,
// PositionValue and Profit are nil when the current-price lookup failed;
// the rest of the result stands regardless.
type SimulationResult struct {
	TotalShares       int64
	TotalSpent        float64
	DollarCostAverage float64
	CurrentPrice      *float64
	PositionValue     *float64
	Profit            *float64
}
