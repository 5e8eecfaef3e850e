package renderer

import (
	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
)

// NewReturnsReport computes the return metrics of a portfolio over a range.
// A failed money-weighted solve is reported in the result, not as an error.
func NewReturnsReport(ledger *folio.Ledger, market *folio.MarketData, r date.Range, conv folio.TWRConvention) (*ReturnsReport, error) {
	values, err := ledger.ValueHistory(r, market.Lookup())
	if err != nil {
		return nil, err
	}
	state, err := ledger.StateAt(r.To)
	if err != nil {
		return nil, err
	}
	flows := state.CashFlows()

	report := &ReturnsReport{Range: r.String(), Convention: conv.String()}
	report.TWR, err = folio.TWR(values, flows, conv)
	if err != nil {
		return nil, err
	}

	first, beginValue := values.Oldest()
	last, endValue := values.Latest()
	report.Total, err = folio.TotalReturn(beginValue, endValue)
	if err != nil {
		return nil, err
	}
	report.CAGR, err = folio.CAGR(beginValue, endValue, first.DaysUntil(last))
	if err != nil {
		return nil, err
	}
	if mwr, err := folio.MWR(beginValue, endValue, date.NewRange(first, last), flows); err != nil {
		report.MWRErr = err.Error()
	} else {
		report.MWR = mwr
	}
	return report, nil
}

// PeriodBreakdown computes the time-weighted return of each calendar period
// overlapping the range. Periods without enough priced days are skipped.
func PeriodBreakdown(ledger *folio.Ledger, market *folio.MarketData, r date.Range, period date.Period, conv folio.TWRConvention) ([]PeriodReturn, error) {
	state, err := ledger.StateAt(r.To)
	if err != nil {
		return nil, err
	}
	flows := state.CashFlows()

	var rows []PeriodReturn
	for pr := range r.Periods(period) {
		clipped := pr
		if clipped.From.Before(r.From) {
			clipped.From = r.From
		}
		if clipped.To.After(r.To) {
			clipped.To = r.To
		}
		values, err := ledger.ValueHistory(clipped, market.Lookup())
		if err != nil {
			return nil, err
		}
		twr, err := folio.TWR(values, flows, conv)
		if err != nil {
			continue
		}
		rows = append(rows, PeriodReturn{Range: clipped.String(), TWR: twr})
	}
	return rows, nil
}

// NewRiskReport computes the risk metrics of a portfolio over a range.
// Ratio and tail metrics that cannot be computed carry their reason in the
// report instead of failing it.
func NewRiskReport(ledger *folio.Ledger, market *folio.MarketData, r date.Range, varCfg folio.VaRConfig, riskFreeRate float64) (*RiskReport, error) {
	values, err := ledger.ValueHistory(r, market.Lookup())
	if err != nil {
		return nil, err
	}
	returns := folio.ReturnsFromValues(values).Values()

	report := &RiskReport{
		Range:        r.String(),
		Observations: len(returns),
		VaRMode:      varCfg.Mode.String(),
		Confidence:   varCfg.Confidence,
	}
	report.Volatility, err = folio.AnnualizedVolatility(returns)
	if err != nil {
		return nil, err
	}
	if report.Sharpe, err = folio.Sharpe(returns, riskFreeRate); err != nil {
		report.SharpeErr = err.Error()
	}
	if report.Sortino, err = folio.Sortino(returns, riskFreeRate); err != nil {
		report.SortinoErr = err.Error()
	}
	if report.Drawdown, err = folio.MaxDrawdown(values); err != nil {
		return nil, err
	}
	if report.VaR, err = folio.VaR(returns, varCfg); err != nil {
		report.VaRErr = err.Error()
	} else if report.CVaR, err = folio.CVaR(returns, varCfg); err != nil {
		report.VaRErr = err.Error()
	}
	return report, nil
}
