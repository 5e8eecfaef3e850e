package folio

import (
	"sort"

	"github.com/folioquant/folio/date"
)

// PriceLookup resolves the unit price of an instrument on a given date, in
// the ledger's base currency. It reports false when no price is known on or
// before that date.
type PriceLookup func(ticker string, on date.Date) (float64, bool)

// unclassified is the bucket for instruments declared without a tag.
const unclassified = "unclassified"

// PositionValue is the valuation of one open position in a snapshot.
type PositionValue struct {
	Ticker     string
	Quantity   Quantity
	Price      Money // unit price on the snapshot date
	Value      Money
	CostBasis  Money
	Unrealized Money // Value minus CostBasis
	Weight     Percent

	AssetClass string
	Sector     string
	Strategy   string
}

// Snapshot is the valuation of a portfolio on a single date. When some
// position has no resolvable price the snapshot is Partial: those tickers are
// listed in Missing, excluded from TotalValue, and allocation weights are
// computed over the resolved subset only.
type Snapshot struct {
	On         date.Date
	Currency   string
	Cash       Money
	TotalValue Money // cash plus resolved position values
	Positions  []PositionValue
	Missing    []string
	Partial    bool
}

// Snapshot values the open positions on a given date with the prices the
// lookup resolves. The ledger itself is never modified.
func (l *Ledger) Snapshot(on date.Date, prices PriceLookup) (*Snapshot, error) {
	holdings, err := l.HoldingsAt(on)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{On: on, Currency: l.currency}

	state, err := l.StateAt(on)
	if err != nil {
		return nil, err
	}
	snap.Cash = state.Cash()
	snap.TotalValue = snap.Cash

	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		pos := holdings[ticker]
		px, ok := prices(ticker, on)
		if !ok {
			snap.Missing = append(snap.Missing, ticker)
			snap.Partial = true
			continue
		}
		pv := PositionValue{
			Ticker:    ticker,
			Quantity:  pos.Quantity,
			Price:     M(px, l.currency),
			CostBasis: pos.CostBasis,
		}
		pv.Value = pv.Price.Mul(pos.Quantity)
		pv.Unrealized = pv.Value.Sub(pos.CostBasis)
		if ins := l.Instrument(ticker); ins != nil {
			pv.AssetClass = ins.AssetClass()
			pv.Sector = ins.Sector()
			pv.Strategy = ins.Strategy()
		}
		snap.TotalValue = snap.TotalValue.Add(pv.Value)
		snap.Positions = append(snap.Positions, pv)
	}

	// Weights are relative to the resolved total, cash included.
	if total := snap.TotalValue.AsFloat(); total != 0 {
		for i := range snap.Positions {
			snap.Positions[i].Weight = Percent(100 * snap.Positions[i].Value.AsFloat() / total)
		}
	}
	return snap, nil
}

// Unrealized returns the total unrealized gain over the resolved positions.
func (s *Snapshot) Unrealized() Money {
	var total Money
	for _, pv := range s.Positions {
		total = total.Add(pv.Unrealized)
	}
	return total
}

// ByAssetClass returns the allocation weights grouped by asset class.
func (s *Snapshot) ByAssetClass() map[string]Percent {
	return s.allocation(func(pv PositionValue) string { return pv.AssetClass })
}

// BySector returns the allocation weights grouped by sector.
func (s *Snapshot) BySector() map[string]Percent {
	return s.allocation(func(pv PositionValue) string { return pv.Sector })
}

// ByStrategy returns the allocation weights grouped by strategy.
func (s *Snapshot) ByStrategy() map[string]Percent {
	return s.allocation(func(pv PositionValue) string { return pv.Strategy })
}

// allocation sums position weights per bucket over the resolved positions.
// Buckets always sum to the invested weight, whatever prices are missing.
func (s *Snapshot) allocation(key func(PositionValue) string) map[string]Percent {
	res := make(map[string]Percent)
	for _, pv := range s.Positions {
		k := key(pv)
		if k == "" {
			k = unclassified
		}
		res[k] += pv.Weight
	}
	return res
}

// ValueHistory values the portfolio on every day of the range and returns the
// total values as a history. Days on which the snapshot is partial are
// skipped, so downstream return computations only see fully priced days.
func (l *Ledger) ValueHistory(r date.Range, prices PriceLookup) (date.History[float64], error) {
	var h date.History[float64]
	for on := range r.Dates() {
		snap, err := l.Snapshot(on, prices)
		if err != nil {
			return h, err
		}
		if snap.Partial {
			continue
		}
		h.Append(on, snap.TotalValue.AsFloat())
	}
	return h, nil
}
