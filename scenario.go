package folio

import (
	"fmt"
	"sort"
)

// PositionImpact is the effect of a scenario on one position.
type PositionImpact struct {
	Ticker   string
	Base     Money
	Stressed Money
	PnL      Money
}

// ScenarioResult is the portfolio-level effect of a deterministic scenario.
// Cash is carried through unchanged.
type ScenarioResult struct {
	Name      string
	Base      Money // total value before the scenario
	Stressed  Money // total value after the scenario
	PnL       Money
	Positions []PositionImpact
}

// validShock rejects relative moves at or below a full loss.
func validShock(move float64) error {
	if move <= -1 {
		return fmt.Errorf("%w: shock %g wipes more than the full value", ErrInvalidParameter, move)
	}
	return nil
}

// ApplyShock revalues a snapshot under per-ticker relative price moves
// (-0.2 is a 20% drop). Tickers absent from the map keep their price.
func ApplyShock(snap *Snapshot, name string, moves map[string]float64) (*ScenarioResult, error) {
	for ticker, move := range moves {
		if err := validShock(move); err != nil {
			return nil, fmt.Errorf("shock on %s: %w", ticker, err)
		}
	}
	return revalue(snap, name, func(pv PositionValue) float64 {
		return moves[pv.Ticker]
	}), nil
}

// SectorShock revalues a snapshot with a single relative move applied to
// every position of one sector.
func SectorShock(snap *Snapshot, sector string, move float64) (*ScenarioResult, error) {
	if err := validShock(move); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("sector %s %+.1f%%", sector, 100*move)
	return revalue(snap, name, func(pv PositionValue) float64 {
		bucket := pv.Sector
		if bucket == "" {
			bucket = unclassified
		}
		if bucket == sector {
			return move
		}
		return 0
	}), nil
}

// FactorStress revalues a snapshot under factor moves, each position moving
// by the sum of its exposures times the factor moves. Exposures map a ticker
// to its per-factor sensitivities.
func FactorStress(snap *Snapshot, name string, exposures map[string]map[string]float64, moves map[string]float64) (*ScenarioResult, error) {
	for factor, move := range moves {
		if err := validShock(move); err != nil {
			return nil, fmt.Errorf("factor %s: %w", factor, err)
		}
	}
	res := revalue(snap, name, func(pv PositionValue) float64 {
		var total float64
		for factor, beta := range exposures[pv.Ticker] {
			total += beta * moves[factor]
		}
		return total
	})
	// Compound exposures may still imply a sub-total loss.
	for _, pi := range res.Positions {
		if pi.Stressed.IsNegative() {
			return nil, fmt.Errorf("%w: combined exposure drives %s below zero", ErrInvalidParameter, pi.Ticker)
		}
	}
	return res, nil
}

// revalue recomputes each position under a relative move and aggregates.
// The input snapshot is never modified.
func revalue(snap *Snapshot, name string, move func(PositionValue) float64) *ScenarioResult {
	res := &ScenarioResult{
		Name:     name,
		Base:     snap.TotalValue,
		Stressed: snap.Cash,
	}
	for _, pv := range snap.Positions {
		m := move(pv)
		stressed := M(pv.Value.AsFloat()*(1+m), snap.Currency)
		res.Positions = append(res.Positions, PositionImpact{
			Ticker:   pv.Ticker,
			Base:     pv.Value,
			Stressed: stressed,
			PnL:      stressed.Sub(pv.Value),
		})
		res.Stressed = res.Stressed.Add(stressed)
	}
	sort.Slice(res.Positions, func(i, j int) bool { return res.Positions[i].Ticker < res.Positions[j].Ticker })
	res.PnL = res.Stressed.Sub(res.Base)
	return res
}
