package simulator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"RecurringInvest/internal/collector"
	"RecurringInvest/internal/model"
	"RecurringInvest/internal/schedule"
)

// Outcome bundles the ordered event sequence with its summary.
type Outcome struct {
	Events []model.PurchaseEvent
	Result model.SimulationResult
}

// Runner is the simulation entry point exposed to the presentation layer.
type Runner struct {
	Collector *collector.Collector
}

// NewRunner creates a Runner on top of a collector.
func NewRunner(col *collector.Collector) *Runner {
	return &Runner{Collector: col}
}

// Run validates the request, fetches the price series, folds the schedule
// into purchase events and aggregates them. Two provider calls happen per
// run: the full-range series fetch, which is fatal on failure, and the
// current-price lookup, whose failure only leaves the valuation fields
// unset.
func (r *Runner) Run(ctx context.Context, req model.SimulationRequest) (*Outcome, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	dates, err := schedule.Dates(req.Start, req.End, req.Cadence)
	if err != nil {
		return nil, err
	}

	series, err := r.Collector.CollectSeries(ctx, req.Symbol, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	events, err := Simulate(dates, series, req.Contribution, req.SpendSurplus)
	if err != nil {
		return nil, err
	}

	var currentPrice *float64
	if price, err := r.Collector.CurrentPrice(ctx, req.Symbol); err != nil {
		log.Printf("[WARN] current price lookup failed, valuation unavailable: %v", err)
	} else {
		currentPrice = &price
	}

	return &Outcome{
		Events: events,
		Result: Aggregate(events, currentPrice),
	}, nil
}

func validate(req model.SimulationRequest) error {
	if strings.TrimSpace(req.Symbol) == "" {
		return fmt.Errorf("%w: symbol", model.ErrMissingInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end dates", model.ErrMissingInput)
	}
	if _, err := model.ParseCadence(string(req.Cadence)); err != nil {
		return err
	}
	if req.Start.After(req.End) {
		return fmt.Errorf("%w: %s > %s", model.ErrInvalidRange,
			req.Start.Format(model.DateFormat), req.End.Format(model.DateFormat))
	}
	if req.Contribution <= 0 {
		return fmt.Errorf("%w: got %v", model.ErrInvalidContribution, req.Contribution)
	}
	return nil
}
