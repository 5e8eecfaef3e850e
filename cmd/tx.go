package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/folioquant/folio"
	"github.com/folioquant/folio/date"
	"github.com/google/subcommands"
)

// txFlags are the flags shared by every transaction command.
type txFlags struct {
	date string
	memo string
}

func (t *txFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", "", "Date of the transaction (YYYY-MM-DD, today by default)")
	f.StringVar(&t.memo, "m", "", "Free-form memo")
}

func (t *txFlags) day() (date.Date, error) {
	return parseDay(t.date, date.Today())
}

// --- declare ---

type declareCmd struct {
	txFlags
	ticker   string
	currency string
	class    string
	sector   string
	strategy string
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare a security and its classification tags" }
func (*declareCmd) Usage() string {
	return `folio declare -t <ticker> [-c <currency>] [-class <class>] [-sector <sector>] [-strategy <strategy>]

  Declares a security for use in the ledger. The classification tags feed the
  allocation breakdowns of the hold report.
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.ticker, "t", "", "Ticker of the security")
	f.StringVar(&c.currency, "c", "", "Currency of the security (ledger currency by default)")
	f.StringVar(&c.class, "class", "", "Asset class tag")
	f.StringVar(&c.sector, "sector", "", "Sector tag")
	f.StringVar(&c.strategy, "strategy", "", "Strategy tag")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	currency := c.currency
	if currency == "" {
		currency = cfg.Currency
	}
	return appendTransaction(cfg, folio.NewDeclare(day, c.memo, c.ticker, currency, c.class, c.sector, c.strategy))
}

// --- buy ---

type buyCmd struct {
	txFlags
	security string
	quantity float64
	price    float64
	fee      float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of a security" }
func (*buyCmd) Usage() string {
	return `folio buy -s <ticker> -q <quantity> -p <price> [-f <fee>]

  Records a purchase. The quantity and unit price open a new lot; the fee is
  added to the lot's cost basis.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.security, "s", "", "Ticker of the security")
	f.Float64Var(&c.quantity, "q", 0, "Quantity bought")
	f.Float64Var(&c.price, "p", 0, "Price per unit")
	f.Float64Var(&c.fee, "f", 0, "Transaction fee")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	return appendTransaction(cfg, folio.NewBuy(day, c.memo, c.security,
		folio.Q(c.quantity), folio.M(c.price, cfg.Currency), folio.M(c.fee, cfg.Currency)))
}

// --- sell ---

type sellCmd struct {
	txFlags
	security string
	quantity float64
	price    float64
	fee      float64
	lots     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of a security" }
func (*sellCmd) Usage() string {
	return `folio sell -s <ticker> -q <quantity> -p <price> [-f <fee>] [-lots <id,id>]

  Records a sale. Open lots are consumed according to the configured matching
  policy; with the specific policy, -lots names the lot IDs to consume.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.security, "s", "", "Ticker of the security")
	f.Float64Var(&c.quantity, "q", 0, "Quantity sold")
	f.Float64Var(&c.price, "p", 0, "Price per unit")
	f.Float64Var(&c.fee, "f", 0, "Transaction fee")
	f.StringVar(&c.lots, "lots", "", "Comma-separated lot IDs for specific-lot matching")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	sell := folio.NewSell(day, c.memo, c.security,
		folio.Q(c.quantity), folio.M(c.price, cfg.Currency), folio.M(c.fee, cfg.Currency))
	if c.lots != "" {
		sell = sell.WithLots(strings.Split(c.lots, ",")...)
	}
	return appendTransaction(cfg, sell)
}

// --- dividend ---

type dividendCmd struct {
	txFlags
	security string
	amount   float64
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record dividend income from a security" }
func (*dividendCmd) Usage() string {
	return `folio dividend -s <ticker> -a <amount>

  Records cash income from a held security. Dividends raise cash but are not
  external cash flows, so they improve returns instead of distorting them.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.security, "s", "", "Ticker of the security")
	f.Float64Var(&c.amount, "a", 0, "Total cash received")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	return appendTransaction(cfg, folio.NewDividend(day, c.memo, c.security, folio.M(c.amount, cfg.Currency)))
}

// --- deposit ---

type depositCmd struct {
	txFlags
	amount float64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record external cash entering the portfolio" }
func (*depositCmd) Usage() string {
	return `folio deposit -a <amount>

  Records an external cash contribution.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.Float64Var(&c.amount, "a", 0, "Amount deposited")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	return appendTransaction(cfg, folio.NewDeposit(day, c.memo, folio.M(c.amount, cfg.Currency)))
}

// --- withdraw ---

type withdrawCmd struct {
	txFlags
	amount float64
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record external cash leaving the portfolio" }
func (*withdrawCmd) Usage() string {
	return `folio withdraw -a <amount>

  Records an external cash withdrawal.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.Float64Var(&c.amount, "a", 0, "Amount withdrawn")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	day, err := c.day()
	if err != nil {
		return fail(err)
	}
	return appendTransaction(cfg, folio.NewWithdraw(day, c.memo, folio.M(c.amount, cfg.Currency)))
}
