// Package cmd implements the CLI application to analyze a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/google/subcommands"
)

// Register registers every subcommand. A main package calls Register() and
// then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&declareCmd{}, "ledger")
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&dividendCmd{}, "ledger")
	c.Register(&depositCmd{}, "ledger")
	c.Register(&withdrawCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&holdCmd{}, "reports")
	c.Register(&valueCmd{}, "reports")
	c.Register(&returnsCmd{}, "reports")
	c.Register(&riskCmd{}, "reports")

	c.Register(&shockCmd{}, "scenarios")
	c.Register(&simCmd{}, "scenarios")

	c.Register(&importPricesCmd{}, "market data")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// As a CLI application the lifecycle is short lived, so globals are fine.
var configFile = flag.String("config", "folio.yaml", "Path to the portfolio config file")

// loadConfig reads the config file, or the defaults when it does not exist.
func loadConfig() (folio.Config, error) {
	if _, err := os.Stat(*configFile); errors.Is(err, fs.ErrNotExist) {
		return folio.DefaultConfig(), nil
	}
	return folio.LoadConfig(*configFile)
}

// loadLedger decodes the ledger file named by the config. A missing file is
// an empty ledger.
func loadLedger(cfg folio.Config) (*folio.Ledger, error) {
	f, err := os.Open(cfg.LedgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return folio.NewLedger(cfg.Currency).WithMatching(cfg.MatchingPolicy()), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", cfg.LedgerFile, err)
	}
	defer f.Close()

	ledger, err := folio.DecodeLedger(f, cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", cfg.LedgerFile, err)
	}
	return ledger.WithMatching(cfg.MatchingPolicy()), nil
}

// loadMarket decodes the price file named by the config. A missing file is
// an empty table.
func loadMarket(cfg folio.Config) (*folio.MarketData, error) {
	f, err := os.Open(cfg.PricesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return folio.NewMarketData(), nil
		}
		return nil, fmt.Errorf("could not open price file %q: %w", cfg.PricesFile, err)
	}
	defer f.Close()

	market, err := folio.DecodeMarketData(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode price file %q: %w", cfg.PricesFile, err)
	}
	return market, nil
}

// appendTransaction validates a transaction against the current ledger and
// appends it to the ledger file.
func appendTransaction(cfg folio.Config, tx folio.Transaction) subcommands.ExitStatus {
	ledger, err := loadLedger(cfg)
	if err != nil {
		return fail(err)
	}
	if err := ledger.Append(tx); err != nil {
		return fail(err)
	}

	f, err := os.OpenFile(cfg.LedgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fail(fmt.Errorf("could not open ledger file %q: %w", cfg.LedgerFile, err))
	}
	defer f.Close()

	if err := folio.EncodeTransaction(f, tx); err != nil {
		return fail(fmt.Errorf("could not write to ledger file %q: %w", cfg.LedgerFile, err))
	}
	fmt.Printf("Appended %s transaction to %s\n", tx.What(), cfg.LedgerFile)
	return subcommands.ExitSuccess
}

// fail prints an error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// parseDay parses a YYYY-MM-DD flag, with a fallback for the empty string.
func parseDay(s string, fallback date.Date) (date.Date, error) {
	if s == "" {
		return fallback, nil
	}
	return date.Parse(s)
}

// reportRange builds the date range of a report from its start and end flags.
// An empty start falls back to the ledger's first transaction.
func reportRange(ledger *folio.Ledger, start, end string) (date.Range, error) {
	to, err := parseDay(end, date.Today())
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	from, err := parseDay(start, ledger.OldestTransactionDate())
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid start date: %w", err)
	}
	if from.IsZero() {
		return date.Range{}, fmt.Errorf("empty ledger: no start date")
	}
	return date.NewRange(from, to), nil
}
