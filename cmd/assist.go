package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an AI analyst about the portfolio" }
func (*assistCmd) Usage() string {
	return `folio assist [<question> ...]

  Starts an interactive session with an AI analyst that can value the
  portfolio and compute its returns and risk. Requires the GEMINI_API_KEY
  environment variable. Arguments are asked as initial questions.
`
}

func (*assistCmd) SetFlags(f *flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fail(err)
	}

	load := func() (*folio.Ledger, *folio.MarketData, error) {
		ledger, err := loadLedger(cfg)
		if err != nil {
			return nil, nil, err
		}
		market, err := loadMarket(cfg)
		if err != nil {
			return nil, nil, err
		}
		return ledger, market, nil
	}

	a := agent.New(os.Stdout, os.Stdin, agent.NewAnalyst(load))
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
