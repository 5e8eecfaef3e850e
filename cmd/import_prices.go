package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/google/subcommands"
)

type importPricesCmd struct {
	ticker    string
	datePath  string
	pricePath string
}

func (*importPricesCmd) Name() string     { return "import-prices" }
func (*importPricesCmd) Synopsis() string { return "import prices from a JSON feed" }
func (*importPricesCmd) Usage() string {
	return `folio import-prices -t <ticker> [-date-path <expr>] [-price-path <expr>] <url or file>

  Reads a JSON document from a URL or a file, extracts dates and prices with
  JSONPath expressions, and merges them into the price file. The defaults fit
  end-of-day feeds shaped like [{"date": ..., "close": ...}, ...].
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker to record the prices under")
	f.StringVar(&c.datePath, "date-path", "$[*].date", "JSONPath of the dates")
	f.StringVar(&c.pricePath, "price-path", "$[*].close", "JSONPath of the prices")
}

func (c *importPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		return fail(fmt.Errorf("missing -t ticker"))
	}
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected one source url or file, got %d", f.NArg()))
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	market, err := loadMarket(cfg)
	if err != nil {
		return fail(err)
	}

	data, err := readSource(ctx, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fail(fmt.Errorf("could not parse source JSON: %w", err))
	}

	days, err := extractDates(c.datePath, doc)
	if err != nil {
		return fail(err)
	}
	prices, err := extractPrices(c.pricePath, doc)
	if err != nil {
		return fail(err)
	}
	if len(days) != len(prices) {
		return fail(fmt.Errorf("found %d dates but %d prices", len(days), len(prices)))
	}
	for i, day := range days {
		market.SetPrice(c.ticker, day, prices[i])
	}

	var buf bytes.Buffer
	if err := folio.EncodeMarketData(&buf, market); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(cfg.PricesFile, buf.Bytes(), 0o644); err != nil {
		return fail(fmt.Errorf("could not rewrite price file %q: %w", cfg.PricesFile, err))
	}
	fmt.Printf("Imported %d prices for %s into %s\n", len(days), c.ticker, cfg.PricesFile)
	return subcommands.ExitSuccess
}

// readSource fetches the JSON document from a URL, or reads it from a file.
func readSource(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("could not read source file %q: %w", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %q: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: unexpected status %s", source, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// extractDates evaluates a JSONPath expression into a list of days.
func extractDates(path string, doc interface{}) ([]date.Date, error) {
	values, err := extract(path, doc)
	if err != nil {
		return nil, err
	}
	days := make([]date.Date, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("date %v is not a string", v)
		}
		day, err := date.Parse(s)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// extractPrices evaluates a JSONPath expression into a list of prices.
func extractPrices(path string, doc interface{}) ([]float64, error) {
	values, err := extract(path, doc)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, 0, len(values))
	for _, v := range values {
		switch px := v.(type) {
		case float64:
			prices = append(prices, px)
		case string:
			parsed, err := strconv.ParseFloat(px, 64)
			if err != nil {
				return nil, fmt.Errorf("price %q is not a number: %w", px, err)
			}
			prices = append(prices, parsed)
		default:
			return nil, fmt.Errorf("price %v is not a number", v)
		}
	}
	return prices, nil
}

func extract(path string, doc interface{}) ([]interface{}, error) {
	res, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("jsonpath %q: %w", path, err)
	}
	values, ok := res.([]interface{})
	if !ok {
		// A path without wildcard yields a single value.
		values = []interface{}{res}
	}
	return values, nil
}
