package folio

import "errors"

// Input-validity errors: the call is rejected, no partial result is produced.
var (
	// ErrOutOfOrder reports a transaction whose date precedes the last applied
	// one. Lot matching requires a strict chronological replay.
	ErrOutOfOrder = errors.New("transaction out of chronological order")

	// ErrInvalidPeriod reports a non-positive time span or starting value in a
	// growth-rate computation.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidParameter reports an out-of-domain simulation parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Data-sufficiency errors: the inputs are well-formed but too small or too
// degenerate to support the requested metric. Never silently zero.
var (
	// ErrInsufficientPosition reports a sell that exceeds the open quantity.
	// Short selling is not supported.
	ErrInsufficientPosition = errors.New("insufficient open position")

	// ErrInsufficientData reports a series below the configured minimum
	// sample size.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientOverlap reports fewer than two overlapping observations
	// between two series.
	ErrInsufficientOverlap = errors.New("insufficient overlap between series")

	// ErrDegenerateSeries reports a constant series whose dispersion-based
	// metric is undefined.
	ErrDegenerateSeries = errors.New("degenerate series")
)

// Convergence errors: the caller may retry with widened bounds or a larger
// iteration budget.
var (
	// ErrNoConvergence reports an iterative solver that exhausted its budget
	// or could not bracket a root.
	ErrNoConvergence = errors.New("solver did not converge")
)
