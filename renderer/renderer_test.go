package renderer

import (
	"strings"
	"testing"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
)

func TestHoldingsMarkdown(t *testing.T) {
	out := Holdings(&HoldingsReport{
		On:   "2025-06-30",
		Cash: folio.M(150, "USD"),
		Positions: []folio.Position{
			{Ticker: "AAA", Quantity: folio.Q(10), CostBasis: folio.M(1000, "USD"), Realized: folio.M(25, "USD")},
		},
	})
	for _, want := range []string{"2025-06-30", "AAA", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("holdings markdown missing %q:\n%s", want, out)
		}
	}
}

func TestReturnsMarkdown(t *testing.T) {
	out := Returns(&ReturnsReport{
		Range:      "2025-01-01 to 2025-12-31",
		Convention: "exact",
		TWR:        0.1234,
		MWR:        0.1111,
		CAGR:       0.1234,
	})
	for _, want := range []string{"12.34%", "11.11%", "exact"} {
		if !strings.Contains(out, want) {
			t.Errorf("returns markdown missing %q:\n%s", want, out)
		}
	}
}

func TestReturnsMarkdownSolverFailure(t *testing.T) {
	out := Returns(&ReturnsReport{Convention: "exact", MWRErr: "solver did not converge"})
	if !strings.Contains(out, "solver did not converge") {
		t.Errorf("returns markdown missing solver failure:\n%s", out)
	}
}

func TestRiskMarkdown(t *testing.T) {
	out := Risk(&RiskReport{
		Range:        "2025",
		Observations: 252,
		Volatility:   0.18,
		Sharpe:       1.2,
		Sortino:      1.5,
		Drawdown:     folio.Drawdown{Depth: -0.25, Peak: date.New(2025, 3, 1), Trough: date.New(2025, 4, 2)},
		VaRMode:      "historical",
		Confidence:   0.95,
		VaR:          0.031,
		CVaR:         0.042,
	})
	for _, want := range []string{"18.00%", "-25.00%", "historical", "3.10%"} {
		if !strings.Contains(out, want) {
			t.Errorf("risk markdown missing %q:\n%s", want, out)
		}
	}
}

func TestSimulationMarkdown(t *testing.T) {
	model := folio.GBM{Mu: 0.05, Sigma: 0.1, Dt: 1.0 / 12}
	res, err := folio.Simulate(1000, model, folio.SimulationConfig{Paths: 50, Steps: 12, Seed: 1})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	p50, err := res.Percentile(0.5)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	out := Simulation(&SimulationReport{
		Result: res,
		Start:  1000,
		Bands:  []Band{{Percentile: 0.5, Value: p50}},
	})
	if !strings.Contains(out, "50 paths") {
		t.Errorf("simulation markdown missing path count:\n%s", out)
	}
}
