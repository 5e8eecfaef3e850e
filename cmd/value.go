package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the portfolio and break down its allocations" }
func (*valueCmd) Usage() string {
	return `folio value [-d <date>]

  Values every open position at the latest known price on or before the date,
  and breaks the total down by asset class, sector and strategy. Positions
  with no known price are listed as missing and the total marked partial.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD, today by default)")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	day, err := parseDay(c.date, date.Today())
	if err != nil {
		return fail(err)
	}

	snap, err := ledger.Snapshot(day, market.Lookup())
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Snapshot(snap))
	return subcommands.ExitSuccess
}
