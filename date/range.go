package date

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange creates a new range. If 'from' is after 'to' they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// PeriodRange returns the full period range containing d.
func PeriodRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether the date falls within the range, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days returns the number of whole days between From and To.
func (r Range) Days() int { return r.From.DaysUntil(r.To) }

// Dates returns an iterator over each date in the range, inclusive.
func (r Range) Dates() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Periods returns an iterator over each sequential period range of kind p
// that overlaps the range r.
func (r Range) Periods(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for current := r.From; !current.After(r.To); {
			pr := PeriodRange(current, p)
			if !yield(pr) {
				return
			}
			current = pr.To.Add(1)
		}
	}
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
