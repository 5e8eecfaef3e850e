package agent

import (
	"context"
	"fmt"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/folioquant/folio/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Loader gives the analyst access to the portfolio data on each call, so the
// chat always sees the current state of the files.
type Loader func() (*folio.Ledger, *folio.MarketData, error)

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about each expert's skill from the Tools and ask them questions.
			They are at your service and keep context of your previous questions.

			The user asks about his own portfolio: its holdings, its performance and
			its risk. Check the portfolio first to understand what his tickers are,
			then devise a plan of questions and come up with the best response.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the expert that reads the portfolio and computes its
// figures through the engine.
func NewAnalyst(load Loader) *Expert {
	lib := []Function{
		holdingsFunc(load),
		returnsFunc(load),
		riskFunc(load),
	}
	return &Expert{
		Name: "Analyst",
		Description: `This is the portfolio Analyst. He reads the user's ledger and
		price table and computes valuations, returns and risk figures on demand.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's portfolio.
				Use the available tools to get the portfolio's holdings on a date,
				its returns over a period, and its risk figures over a period.
				Pardon approximative language and figure out what the user meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// respond builds a response carrying either an output or an error.
func respond(id, name string, output string, err error) *genai.FunctionResponse {
	resp := &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{}}
	if err != nil {
		resp.Response["error"] = err.Error()
		return resp
	}
	resp.Response["output"] = output
	return resp
}

var dateSchema = &genai.Schema{
	Type:        genai.TypeString,
	Description: "A date in YYYY-MM-DD format. Today is the default.",
}

func parseDateArg(args map[string]any, key string, fallback date.Date) (date.Date, error) {
	raw, ok := args[key]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return fallback, fmt.Errorf("argument %q is not a string but %T", key, raw)
	}
	return date.Parse(s)
}

func holdingsFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Holdings",
			Description: "Holdings values the portfolio on a date: positions, weights and allocation, with a partial-data warning when prices are missing.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"date": dateSchema},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown valuation snapshot.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			on, err := parseDateArg(args, "date", date.Today())
			if err != nil {
				return respond(id, "Holdings", "", err)
			}
			ledger, market, err := load()
			if err != nil {
				return respond(id, "Holdings", "", err)
			}
			snap, err := ledger.Snapshot(on, market.Lookup())
			if err != nil {
				return respond(id, "Holdings", "", err)
			}
			return respond(id, "Holdings", renderer.Snapshot(snap), nil)
		},
	}
}

func returnsFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Returns",
			Description: "Returns computes time-weighted, money-weighted and annualized returns of the portfolio over a period.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": dateSchema,
					"to":   dateSchema,
				},
				Required: []string{"from"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown returns report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			from, err := parseDateArg(args, "from", date.Date{})
			if err != nil {
				return respond(id, "Returns", "", err)
			}
			to, err := parseDateArg(args, "to", date.Today())
			if err != nil {
				return respond(id, "Returns", "", err)
			}
			ledger, market, err := load()
			if err != nil {
				return respond(id, "Returns", "", err)
			}
			report, err := renderer.NewReturnsReport(ledger, market, date.NewRange(from, to), folio.TWRExact)
			if err != nil {
				return respond(id, "Returns", "", err)
			}
			return respond(id, "Returns", renderer.Returns(report), nil)
		},
	}
}

func riskFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Risk",
			Description: "Risk computes volatility, Sharpe, Sortino, max drawdown and historical value-at-risk of the portfolio over a period.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": dateSchema,
					"to":   dateSchema,
				},
				Required: []string{"from"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown risk report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			from, err := parseDateArg(args, "from", date.Date{})
			if err != nil {
				return respond(id, "Risk", "", err)
			}
			to, err := parseDateArg(args, "to", date.Today())
			if err != nil {
				return respond(id, "Risk", "", err)
			}
			ledger, market, err := load()
			if err != nil {
				return respond(id, "Risk", "", err)
			}
			report, err := renderer.NewRiskReport(ledger, market, date.NewRange(from, to), folio.VaRConfig{Confidence: 0.95, Mode: folio.Historical}, 0)
			if err != nil {
				return respond(id, "Risk", "", err)
			}
			return respond(id, "Risk", renderer.Risk(report), nil)
		},
	}
}
