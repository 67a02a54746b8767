package model

import "errors"

// Input validation failures, surfaced before any provider I/O is attempted.
var (
	ErrInvalidRange        = errors.New("start date must not be after end date")
	ErrInvalidContribution = errors.New("contribution amount must be positive")
	ErrMissingInput        = errors.New("missing required input")
)

// Provider failures. Both abort the run: downstream computation requires the series.
var (
	ErrProviderUnavailable = errors.New("price provider unavailable")
	ErrNoData              = errors.New("no price data for symbol in range")
)
