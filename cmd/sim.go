package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
)

// tradingDt is the time step of one trading day in years.
const tradingDt = 1.0 / 252

type simCmd struct {
	start   string
	end     string
	paths   int
	steps   int
	seed    uint64
	workers int
	mu      float64
	sigma   float64
}

func (*simCmd) Name() string     { return "sim" }
func (*simCmd) Synopsis() string { return "simulate future portfolio values with Monte Carlo" }
func (*simCmd) Usage() string {
	return `folio sim [-paths <n>] [-steps <n>] [-seed <n>] [-mu <drift>] [-sigma <vol>]

  Simulates future portfolio values under geometric Brownian motion, starting
  from the current total value. Unless -mu and -sigma are given, drift and
  volatility are estimated from the portfolio's own value history. The same
  seed always reproduces the same result.
`
}

func (c *simCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "History start date for parameter estimation")
	f.StringVar(&c.end, "e", "", "History end date for parameter estimation (today by default)")
	f.IntVar(&c.paths, "paths", 0, "Number of simulated paths (config value by default)")
	f.IntVar(&c.steps, "steps", 0, "Number of daily steps per path (config value by default)")
	f.Uint64Var(&c.seed, "seed", 0, "Random seed (config value by default)")
	f.IntVar(&c.workers, "workers", 0, "Number of workers (one per CPU by default)")
	f.Float64Var(&c.mu, "mu", 0, "Annual drift (estimated from history by default)")
	f.Float64Var(&c.sigma, "sigma", 0, "Annual volatility (estimated from history by default)")
}

func (c *simCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if c.paths != 0 {
		cfg.Simulation.Paths = c.paths
	}
	if c.steps != 0 {
		cfg.Simulation.Steps = c.steps
	}
	if c.seed != 0 {
		cfg.Simulation.Seed = c.seed
	}
	if c.workers != 0 {
		cfg.Simulation.Workers = c.workers
	}

	ledger, err := loadLedger(cfg)
	if err != nil {
		return fail(err)
	}
	market, err := loadMarket(cfg)
	if err != nil {
		return fail(err)
	}
	snap, err := ledger.Snapshot(date.Today(), market.Lookup())
	if err != nil {
		return fail(err)
	}
	start := snap.TotalValue.AsFloat()

	model := folio.GBM{Mu: c.mu, Sigma: c.sigma, Dt: tradingDt}
	if c.sigma == 0 {
		r, err := reportRange(ledger, c.start, c.end)
		if err != nil {
			return fail(err)
		}
		values, err := ledger.ValueHistory(r, market.Lookup())
		if err != nil {
			return fail(err)
		}
		returns := folio.ReturnsFromValues(values).Values()
		if model, err = folio.EstimateGBM(returns, tradingDt); err != nil {
			return fail(err)
		}
	}

	result, err := folio.Simulate(start, model, cfg.SimulationConfig())
	if err != nil {
		return fail(err)
	}

	report := &renderer.SimulationReport{Result: result, Start: start}
	for _, p := range []float64{0.05, 0.25, 0.50, 0.75, 0.95} {
		v, err := result.Percentile(p)
		if err != nil {
			return fail(err)
		}
		report.Bands = append(report.Bands, renderer.Band{Percentile: p, Value: v})
	}
	printMarkdown(renderer.Simulation(report))
	return subcommands.ExitSuccess
}
