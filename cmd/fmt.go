package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/folioquant/folio"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "rewrite the ledger file in canonical form" }
func (*fmtCmd) Usage() string {
	return `folio fmt

  Rewrites the ledger file with sorted transactions and canonical field order,
  so diffs between edits stay minimal.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	ledger, err := loadLedger(cfg)
	if err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	if err := folio.EncodeLedger(&buf, ledger); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(cfg.LedgerFile, buf.Bytes(), 0o644); err != nil {
		return fail(fmt.Errorf("could not rewrite ledger file %q: %w", cfg.LedgerFile, err))
	}
	fmt.Printf("Formatted %s\n", cfg.LedgerFile)
	return subcommands.ExitSuccess
}
