package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
)

type returnsCmd struct {
	start      string
	end        string
	convention string
	period     string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "compute portfolio returns over a period" }
func (*returnsCmd) Usage() string {
	return `folio returns [-s <start>] [-e <end>] [-convention exact|dietz] [-period month|quarter|year]

  Computes the time-weighted, money-weighted and annualized returns over the
  period. The start defaults to the first transaction and the end to today.
  With -period, the report adds a time-weighted return per calendar period.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD, first transaction by default)")
	f.StringVar(&c.end, "e", "", "End date (YYYY-MM-DD, today by default)")
	f.StringVar(&c.convention, "convention", "", "Time-weighted return convention (config value by default)")
	f.StringVar(&c.period, "period", "", "Calendar breakdown: week, month, quarter or year")
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
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

	conv := cfg.TWRConvention()
	if c.convention != "" {
		if conv, err = folio.ParseTWRConvention(c.convention); err != nil {
			return fail(err)
		}
	}

	report, err := renderer.NewReturnsReport(ledger, market, r, conv)
	if err != nil {
		return fail(err)
	}
	if c.period != "" {
		period, err := date.ParsePeriod(c.period)
		if err != nil {
			return fail(err)
		}
		if report.Periods, err = renderer.PeriodBreakdown(ledger, market, r, period, conv); err != nil {
			return fail(err)
		}
	}
	printMarkdown(renderer.Returns(report))
	return subcommands.ExitSuccess
}
