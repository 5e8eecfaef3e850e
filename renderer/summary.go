package renderer

import (
	"github.com/folioquant/folio"
)

// Snapshot renders a valuation snapshot to markdown.
func Snapshot(s *folio.Snapshot) string {
	return renderTemplate("snapshot", "snapshot.md", s)
}

// HoldingsReport lists the book values of a portfolio on one date, prices not
// involved.
type HoldingsReport struct {
	On        string
	Cash      folio.Money
	Positions []folio.Position
}

// Holdings renders a holdings report to markdown.
func Holdings(r *HoldingsReport) string {
	return renderTemplate("holdings", "holdings.md", r)
}

// ReturnsReport aggregates the return metrics of one period for rendering.
type ReturnsReport struct {
	Range      string
	Convention string
	Total      float64 // cumulative value growth, flows included
	TWR        float64
	MWR        float64
	CAGR       float64
	MWRErr     string // non-empty when the solver failed

	Periods []PeriodReturn // optional calendar breakdown
}

// PeriodReturn is the time-weighted return of one calendar sub-period.
type PeriodReturn struct {
	Range string
	TWR   float64
}

// Returns renders a returns report to markdown.
func Returns(r *ReturnsReport) string {
	return renderTemplate("returns", "returns.md", r)
}

// RiskReport aggregates the risk metrics of one period for rendering.
// Metrics that could not be computed carry their reason instead of a value.
type RiskReport struct {
	Range        string
	Observations int
	Volatility   float64
	Sharpe       float64
	SharpeErr    string
	Sortino      float64
	SortinoErr   string
	Drawdown     folio.Drawdown
	VaRMode      string
	Confidence   float64
	VaR          float64
	CVaR         float64
	VaRErr       string
	Benchmark    string
	Beta         float64
	BetaErr      string
	InfoRatio    float64
	InfoRatioErr string
}

// Risk renders a risk report to markdown.
func Risk(r *RiskReport) string {
	return renderTemplate("risk", "risk.md", r)
}

// Scenario renders a deterministic scenario result to markdown.
func Scenario(res *folio.ScenarioResult) string {
	return renderTemplate("scenario", "scenario.md", res)
}

// SimulationReport pairs a simulation result with the percentile bands the
// caller selected.
type SimulationReport struct {
	Result *folio.SimulationResult
	Start  float64
	Bands  []Band
}

// Band is one percentile of the simulated terminal values.
type Band struct {
	Percentile float64
	Value      float64
}

// Simulation renders a Monte Carlo report to markdown.
func Simulation(r *SimulationReport) string {
	return renderTemplate("simulation", "simulation.md", r)
}
