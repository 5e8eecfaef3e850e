package cmd

import (
	"context"
	"flag"

	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
)

type holdCmd struct {
	date string
}

func (*holdCmd) Name() string     { return "hold" }
func (*holdCmd) Synopsis() string { return "list the open positions and their book values" }
func (*holdCmd) Usage() string {
	return `folio hold [-d <date>]

  Lists the positions held on the date with their cost basis, realized gains
  and dividend income. Book values only; see the value command for a priced
  snapshot.
`
}

func (c *holdCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (YYYY-MM-DD, today by default)")
}

func (c *holdCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	ledger, err := loadLedger(cfg)
	if err != nil {
		return fail(err)
	}
	day, err := parseDay(c.date, date.Today())
	if err != nil {
		return fail(err)
	}

	state, err := ledger.StateAt(day)
	if err != nil {
		return fail(err)
	}
	report := &renderer.HoldingsReport{
		On:        day.String(),
		Cash:      state.Cash(),
		Positions: state.Positions(),
	}
	printMarkdown(renderer.Holdings(report))
	return subcommands.ExitSuccess
}
