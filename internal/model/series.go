package model

import (
	"sort"
	"time"
)

// DateFormat is the day-granularity key format used throughout the series.
const DateFormat = "2006-01-02"

// Tick is one raw daily quote from the provider. A zero Open or Close means
// the provider returned null for that session value.
type Tick struct {
	Date  time.Time
	Open  float64
	Close float64
}

// Price returns the representative price for the tick: the average of open
// and close when both are present, otherwise whichever is present. The
// second return is false when the tick carries no usable value.
func (t Tick) Price() (float64, bool) {
	switch {
	case t.Open > 0 && t.Close > 0:
		return (t.Open + t.Close) / 2, true
	case t.Open > 0:
		return t.Open, true
	case t.Close > 0:
		return t.Close, true
	default:
		return 0, false
	}
}

// PriceSeries maps calendar dates to one representative price each.
// Immutable after construction; each simulation run owns its own series.
type PriceSeries struct {
	prices map[string]float64
	dates  []string
}

// NewPriceSeries builds a series from raw provider ticks. Ticks without a
// usable price are dropped; a later tick for the same date wins.
func NewPriceSeries(ticks []Tick) *PriceSeries {
	s := &PriceSeries{prices: make(map[string]float64, len(ticks))}
	for _, t := range ticks {
		p, ok := t.Price()
		if !ok {
			continue
		}
		key := t.Date.Format(DateFormat)
		if _, exists := s.prices[key]; !exists {
			s.dates = append(s.dates, key)
		}
		s.prices[key] = p
	}
	sort.Strings(s.dates)
	return s
}

// Price returns the price for the civil date of t, if any.
func (s *PriceSeries) Price(t time.Time) (float64, bool) {
	p, ok := s.prices[t.Format(DateFormat)]
	return p, ok
}

// Len returns the number of dated prices in the series.
func (s *PriceSeries) Len() int { return len(s.prices) }

// Dates returns the sorted date keys, for diagnostics.
func (s *PriceSeries) Dates() []string {
	out := make([]string, len(s.dates))
	copy(out, s.dates)
	return out
}
