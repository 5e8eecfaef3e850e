package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type shockCmd struct {
	date    string
	name    string
	sector  string
	move    float64
	factors string
}

func (*shockCmd) Name() string     { return "shock" }
func (*shockCmd) Synopsis() string { return "revalue the portfolio under a hypothetical shock" }
func (*shockCmd) Usage() string {
	return `folio shock [-d <date>] [-name <name>] TICKER=MOVE ...
folio shock -sector <sector> -move <move>
folio shock -factors <file.yaml>

  Revalues the current snapshot under hypothetical price moves, given per
  ticker (AAA=-0.2 is a 20% drop), per sector, or through factor exposures
  read from a YAML file with "exposures" and "moves" sections.
`
}

func (c *shockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD, today by default)")
	f.StringVar(&c.name, "name", "shock", "Name of the scenario")
	f.StringVar(&c.sector, "sector", "", "Sector to shock")
	f.Float64Var(&c.move, "move", 0, "Relative move applied to the sector")
	f.StringVar(&c.factors, "factors", "", "YAML file of factor exposures and moves")
}

// factorFile is the on-disk shape of a factor stress definition.
type factorFile struct {
	Name      string                        `yaml:"name"`
	Exposures map[string]map[string]float64 `yaml:"exposures"`
	Moves     map[string]float64            `yaml:"moves"`
}

func (c *shockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var result *folio.ScenarioResult
	switch {
	case c.factors != "":
		data, err := os.ReadFile(c.factors)
		if err != nil {
			return fail(fmt.Errorf("could not read factor file %q: %w", c.factors, err))
		}
		var ff factorFile
		if err := yaml.Unmarshal(data, &ff); err != nil {
			return fail(fmt.Errorf("could not parse factor file %q: %w", c.factors, err))
		}
		name := ff.Name
		if name == "" {
			name = c.name
		}
		result, err = folio.FactorStress(snap, name, ff.Exposures, ff.Moves)
		if err != nil {
			return fail(err)
		}

	case c.sector != "":
		result, err = folio.SectorShock(snap, c.sector, c.move)
		if err != nil {
			return fail(err)
		}

	default:
		moves, err := parseMoves(f.Args())
		if err != nil {
			return fail(err)
		}
		result, err = folio.ApplyShock(snap, c.name, moves)
		if err != nil {
			return fail(err)
		}
	}

	printMarkdown(renderer.Scenario(result))
	return subcommands.ExitSuccess
}

// parseMoves parses TICKER=MOVE arguments into a shock map.
func parseMoves(args []string) (map[string]float64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no shocks given, expected TICKER=MOVE arguments")
	}
	moves := make(map[string]float64, len(args))
	for _, arg := range args {
		ticker, value, found := strings.Cut(arg, "=")
		if !found || ticker == "" {
			return nil, fmt.Errorf("invalid shock %q, expected TICKER=MOVE", arg)
		}
		move, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid move in %q: %w", arg, err)
		}
		moves[ticker] = move
	}
	return moves, nil
}
