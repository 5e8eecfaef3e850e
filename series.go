package folio

import (
	"fmt"
	"iter"

	"github.com/folioquant/folio/date"
)

// ReturnSeries is a dated series of periodic simple returns (0.01 is +1%).
// Its zero value is an empty series ready to use.
type ReturnSeries struct {
	h date.History[float64]
}

// Append records a return on a date, keeping the series sorted. Appending on
// an existing date overwrites the previous value.
func (s *ReturnSeries) Append(on date.Date, r float64) {
	s.h.Append(on, r)
}

// Len returns the number of observations.
func (s *ReturnSeries) Len() int { return s.h.Len() }

// Values returns the returns in chronological order.
func (s *ReturnSeries) Values() []float64 {
	res := make([]float64, 0, s.h.Len())
	for _, v := range s.h.Values() {
		res = append(res, v)
	}
	return res
}

// Observations iterates over date and return pairs in chronological order.
func (s *ReturnSeries) Observations() iter.Seq2[date.Date, float64] {
	return s.h.Values()
}

// Align intersects two series on their common dates and returns the paired
// values in chronological order. Fewer than two common observations is an
// ErrInsufficientOverlap.
func (s *ReturnSeries) Align(other *ReturnSeries) (a, b []float64, err error) {
	for on, v := range s.h.Values() {
		if w, ok := other.h.Get(on); ok {
			a = append(a, v)
			b = append(b, w)
		}
	}
	if len(a) < 2 {
		return nil, nil, fmt.Errorf("%w: %d common observations", ErrInsufficientOverlap, len(a))
	}
	return a, b, nil
}

// ReturnsFromValues derives day-over-day simple returns from a value history.
// Days with a non-positive previous value are skipped.
func ReturnsFromValues(values date.History[float64]) *ReturnSeries {
	var s ReturnSeries
	prev, hasPrev := 0.0, false
	for on, v := range values.Values() {
		if hasPrev && prev > 0 {
			s.Append(on, v/prev-1)
		}
		prev, hasPrev = v, true
	}
	return &s
}
