package folio

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/folioquant/folio/date"
)

// daysPerYear is the day-count basis used to annualize growth rates.
const daysPerYear = 365.25

// TotalReturn is the simple growth of a value over a period.
func TotalReturn(begin, end float64) (float64, error) {
	if begin <= 0 {
		return 0, fmt.Errorf("%w: starting value %g is not positive", ErrInvalidPeriod, begin)
	}
	return end/begin - 1, nil
}

// CAGR annualizes the growth between two values over a span of days, on an
// actual/365.25 day count.
func CAGR(begin, end float64, days int) (float64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: %d days", ErrInvalidPeriod, days)
	}
	if begin <= 0 || end < 0 {
		return 0, fmt.Errorf("%w: values %g to %g", ErrInvalidPeriod, begin, end)
	}
	return math.Pow(end/begin, daysPerYear/float64(days)) - 1, nil
}

// TWRConvention selects how time-weighted return handles external cash flows.
type TWRConvention int

const (
	// TWRExact chains sub-period returns between valuation points, flows
	// counted at the start of their day.
	TWRExact TWRConvention = iota
	// TWRDietz approximates with a single Modified Dietz ratio over the range,
	// flows weighted by the fraction of the period remaining.
	TWRDietz
)

func (c TWRConvention) String() string {
	switch c {
	case TWRExact:
		return "exact"
	case TWRDietz:
		return "dietz"
	default:
		return "unknown"
	}
}

// ParseTWRConvention parses a string into a TWRConvention.
func ParseTWRConvention(s string) (TWRConvention, error) {
	switch s {
	case "exact", "":
		return TWRExact, nil
	case "dietz":
		return TWRDietz, nil
	default:
		return 0, fmt.Errorf("unknown time-weighted return convention: %q", s)
	}
}

// TWR computes the time-weighted return of a portfolio from its daily value
// history and its external cash flows. The result is insensitive to the size
// and timing of the flows themselves.
func TWR(values date.History[float64], flows []CashFlowEvent, convention TWRConvention) (float64, error) {
	if values.Len() < 2 {
		return 0, fmt.Errorf("%w: %d valuation points", ErrInsufficientData, values.Len())
	}
	switch convention {
	case TWRExact:
		return twrExact(values, flows)
	case TWRDietz:
		return twrDietz(values, flows)
	default:
		return 0, fmt.Errorf("unknown time-weighted return convention: %d", convention)
	}
}

// twrExact chains V(d) / (V(prev) + F) across consecutive valuation days,
// where F sums every external flow dated after the previous valuation point
// and no later than d. Valuation points can be sparse; a flow between two of
// them is treated as received before the valuation that follows it, so it
// never counts as performance.
func twrExact(values date.History[float64], flows []CashFlowEvent) (float64, error) {
	sorted := append([]CashFlowEvent(nil), flows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	growth := 1.0
	prev, hasPrev := 0.0, false
	idx := 0
	for on, v := range values.Values() {
		if !hasPrev {
			// Flows up to the first valuation are part of its value.
			for idx < len(sorted) && !sorted[idx].Date.After(on) {
				idx++
			}
			prev, hasPrev = v, true
			continue
		}
		var flow float64
		for idx < len(sorted) && !sorted[idx].Date.After(on) {
			flow += sorted[idx].Amount.AsFloat()
			idx++
		}
		base := prev + flow
		if base <= 0 {
			return 0, fmt.Errorf("%w: non-positive base value on %v", ErrDegenerateSeries, on)
		}
		growth *= v / base
		prev = v
	}
	return growth - 1, nil
}

// twrDietz computes a single Modified Dietz ratio over the full range.
func twrDietz(values date.History[float64], flows []CashFlowEvent) (float64, error) {
	first, beginValue := values.Oldest()
	last, endValue := values.Latest()
	total := first.DaysUntil(last)
	if total <= 0 {
		return 0, fmt.Errorf("%w: valuation range is empty", ErrInvalidPeriod)
	}

	var net, weighted float64
	for _, f := range flows {
		if f.Date.Before(first) || f.Date.After(last) {
			continue
		}
		amount := f.Amount.AsFloat()
		weight := float64(total-first.DaysUntil(f.Date)) / float64(total)
		net += amount
		weighted += weight * amount
	}
	base := beginValue + weighted
	if base <= 0 {
		return 0, fmt.Errorf("%w: non-positive weighted base value", ErrDegenerateSeries)
	}
	return (endValue - beginValue - net) / base, nil
}

// mwr solver bounds and budget. The rate domain is annual.
const (
	mwrRateMin    = -0.9999
	mwrRateMax    = 10.0
	mwrIterations = 200
	mwrTolerance  = 1e-10
)

// MWR computes the money-weighted (internal) rate of return: the annual rate
// at which the begin value and the external flows compound exactly into the
// end value. It is solved by bisection on the net present value and returns
// ErrNoConvergence when no root exists in the rate domain.
func MWR(beginValue, endValue float64, r date.Range, flows []CashFlowEvent) (float64, error) {
	days := r.From.DaysUntil(r.To)
	if days <= 0 {
		return 0, fmt.Errorf("%w: range %v is empty", ErrInvalidPeriod, r)
	}

	// Investor perspective: money in is negative, money out positive.
	type event struct {
		years  float64
		amount float64
	}
	events := []event{{0, -beginValue}, {float64(days) / daysPerYear, endValue}}
	for _, f := range flows {
		if f.Date.Before(r.From) || f.Date.After(r.To) {
			continue
		}
		events = append(events, event{
			years:  float64(r.From.DaysUntil(f.Date)) / daysPerYear,
			amount: -f.Amount.AsFloat(),
		})
	}

	npv := func(rate float64) float64 {
		var sum float64
		for _, e := range events {
			sum += e.amount / math.Pow(1+rate, e.years)
		}
		return sum
	}

	lo, hi := mwrRateMin, mwrRateMax
	flo, fhi := npv(lo), npv(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if flo*fhi > 0 {
		return 0, fmt.Errorf("%w: no root in [%g, %g]", ErrNoConvergence, lo, hi)
	}
	for i := 0; i < mwrIterations; i++ {
		mid := (lo + hi) / 2
		fmid := npv(mid)
		if math.Abs(fmid) < mwrTolerance || hi-lo < mwrTolerance {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, fmt.Errorf("%w: bisection budget of %d iterations exhausted", ErrNoConvergence, mwrIterations)
}

// Rolling applies a metric to every full window of consecutive observations
// and yields the result dated at the window's last day. The sequence is lazy
// and restartable; windows with too little or degenerate data are skipped.
func Rolling(s *ReturnSeries, window int, metric func([]float64) (float64, error)) iter.Seq2[date.Date, float64] {
	return func(yield func(date.Date, float64) bool) {
		if window <= 0 {
			return
		}
		buf := make([]float64, 0, window)
		var dates []date.Date
		for on, v := range s.Observations() {
			buf = append(buf, v)
			dates = append(dates, on)
			if len(buf) < window {
				continue
			}
			res, err := metric(buf[len(buf)-window:])
			if err == nil {
				if !yield(dates[len(dates)-1], res) {
					return
				}
			}
		}
	}
}
