package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
)

type riskCmd struct {
	start      string
	end        string
	mode       string
	confidence float64
	minSample  int
	benchmark  string
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "compute portfolio risk metrics over a period" }
func (*riskCmd) Usage() string {
	return `folio risk -mode historical|parametric [-s <start>] [-e <end>] [-confidence <c>] [-b <benchmark>]

  Computes volatility, Sharpe and Sortino ratios, maximum drawdown, and value
  at risk over the period. The VaR mode has no default: it must come from the
  -mode flag or the config file. With -b, the portfolio's beta against the
  benchmark ticker is included.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD, first transaction by default)")
	f.StringVar(&c.end, "e", "", "End date (YYYY-MM-DD, today by default)")
	f.StringVar(&c.mode, "mode", "", "Value-at-risk mode: historical or parametric")
	f.Float64Var(&c.confidence, "confidence", 0, "Value-at-risk confidence level (config value by default)")
	f.IntVar(&c.minSample, "min-sample", 0, "Minimum observations for tail metrics (config value by default)")
	f.StringVar(&c.benchmark, "b", "", "Benchmark ticker for beta")
}

func (c *riskCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if c.mode != "" {
		cfg.Risk.VaRMode = c.mode
	}
	if c.confidence != 0 {
		cfg.Risk.Confidence = c.confidence
	}
	if c.minSample != 0 {
		cfg.Risk.MinSample = c.minSample
	}
	varCfg, err := cfg.VaRConfig()
	if err != nil {
		return fail(err)
	}

	ledger, err := loadLedger(cfg)
	if err != nil {
		return fail(err)
	}
	market, err := loadMarket(cfg)
	if err != nil {
		return fail(err)
	}
	r, err := reportRange(ledger, c.start, c.end)
	if err != nil {
		return fail(err)
	}

	report, err := renderer.NewRiskReport(ledger, market, r, varCfg, cfg.Risk.FreeRate)
	if err != nil {
		return fail(err)
	}

	if c.benchmark != "" {
		report.Benchmark = c.benchmark
		values, err := ledger.ValueHistory(r, market.Lookup())
		if err != nil {
			return fail(err)
		}
		portfolio := folio.ReturnsFromValues(values)
		benchmark := market.Returns(c.benchmark, r)
		if beta, err := folio.Beta(portfolio, benchmark); err != nil {
			report.BetaErr = err.Error()
		} else {
			report.Beta = beta
		}
		if ir, err := folio.InformationRatio(portfolio, benchmark); err != nil {
			report.InfoRatioErr = err.Error()
		} else {
			report.InfoRatio = ir
		}
	}

	printMarkdown(renderer.Risk(report))
	return subcommands.ExitSuccess
}
