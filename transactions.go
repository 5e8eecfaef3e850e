package folio

import (
	"errors"
	"fmt"

	"github.com/folioquant/folio/date"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeclare  CommandType = "declare"
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
)

// Transaction defines the common interface for all financial transactions
// recorded in the ledger. Quantity, price and fee are non-negative
// magnitudes; direction is carried by the command type.
type Transaction interface {
	What() CommandType // the command type of the transaction (e.g. "buy")
	When() date.Date   // the date on which the transaction occurred
	Equal(Transaction) bool
}

type baseCmd struct {
	Command CommandType `json:"command"`
	Date    date.Date   `json:"date"`
	Memo    string      `json:"memo,omitempty"`
}

// What returns the command name identifying the type of transaction.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the transaction.
func (t baseCmd) When() date.Date { return t.Date }

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// secCmd is a component for instrument-based transactions (buy, sell, dividend).
type secCmd struct {
	baseCmd
	Security string `json:"security"` // ticker of the instrument involved
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("security", t.Security)
	return w.MarshalJSON()
}

// --- Declare ---

// Declare registers an instrument for use in the ledger, mapping a ticker to
// its currency and classification tags.
type Declare struct {
	baseCmd
	Ticker     string `json:"ticker"`
	Currency   string `json:"currency"`
	AssetClass string `json:"assetClass,omitempty"`
	Sector     string `json:"sector,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
}

// NewDeclare creates a new Declare transaction.
func NewDeclare(day date.Date, memo, ticker, currency, assetClass, sector, strategy string) Declare {
	return Declare{
		baseCmd:    baseCmd{Command: CmdDeclare, Date: day, Memo: memo},
		Ticker:     ticker,
		Currency:   currency,
		AssetClass: assetClass,
		Sector:     sector,
		Strategy:   strategy,
	}
}

// Instrument returns the instrument declared by this transaction.
func (t Declare) Instrument() Instrument {
	return NewInstrument(t.Ticker, t.Currency).WithTags(t.AssetClass, t.Sector, t.Strategy)
}

func (t Declare) Equal(other Transaction) bool {
	o, ok := other.(Declare)
	return ok && t == o
}

// MarshalJSON implements the json.Marshaler interface for Declare.
func (t Declare) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("ticker", t.Ticker)
	w.Append("currency", t.Currency)
	w.Optional("assetClass", t.AssetClass)
	w.Optional("sector", t.Sector)
	w.Optional("strategy", t.Strategy)
	return w.MarshalJSON()
}

func (t Declare) validate() error {
	if t.Ticker == "" {
		return errors.New("ticker is missing")
	}
	if t.Currency == "" {
		return errors.New("currency is missing")
	}
	return nil
}

// --- Buy ---

// Buy represents the purchase of a quantity of an instrument at a unit price.
// The fee is added to the lot's cost basis.
type Buy struct {
	secCmd
	Quantity Quantity // number of shares or units bought
	Price    Money    // price per unit
	Fee      Money    // transaction fee, zero when absent
}

// NewBuy creates a new Buy transaction.
func NewBuy(day date.Date, memo, security string, quantity Quantity, price, fee Money) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Security: security},
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
	}
}

// Cost returns the total cost of the purchase, fee included.
func (t Buy) Cost() Money { return t.Price.Mul(t.Quantity).Add(t.Fee) }

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Price)
	w.Optional("fee", t.Fee.value)
	return w.MarshalJSON()
}

func (t Buy) validate() error {
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", t.Price)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("fee must not be negative, got %s", t.Fee)
	}
	return nil
}

// --- Sell ---

// Sell represents the sale of a quantity of an instrument at a unit price.
// The fee reduces the realized proceeds. Lots may name specific lot IDs to
// consume when the ledger uses the specific-lot matching policy.
type Sell struct {
	secCmd
	Quantity Quantity
	Price    Money
	Fee      Money
	Lots     []string // lot IDs, only for specific-lot matching
}

// NewSell creates a new Sell transaction.
func NewSell(day date.Date, memo, security string, quantity Quantity, price, fee Money) Sell {
	return Sell{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Memo: memo}, Security: security},
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
	}
}

// WithLots returns a copy of the sell that names the lots to consume.
func (t Sell) WithLots(ids ...string) Sell {
	t.Lots = ids
	return t
}

// Proceeds returns the net proceeds from the sale, fee deducted.
func (t Sell) Proceeds() Money { return t.Price.Mul(t.Quantity).Sub(t.Fee) }

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	if !ok || t.secCmd != o.secCmd || !t.Quantity.Equal(o.Quantity) ||
		!t.Price.Equal(o.Price) || !t.Fee.Equal(o.Fee) {
		return false
	}
	if len(t.Lots) != len(o.Lots) {
		return false
	}
	for i := range t.Lots {
		if t.Lots[i] != o.Lots[i] {
			return false
		}
	}
	return true
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Price)
	w.Optional("fee", t.Fee.value)
	if len(t.Lots) > 0 {
		w.Append("lots", t.Lots)
	}
	return w.MarshalJSON()
}

func (t Sell) validate() error {
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", t.Price)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("fee must not be negative, got %s", t.Fee)
	}
	return nil
}

// --- Dividend ---

// Dividend represents cash income attributed to a held instrument. It is
// internal income: it does not count as an external cash flow for return
// computations.
type Dividend struct {
	secCmd
	Amount Money // total cash received
}

// NewDividend creates a new Dividend transaction.
func NewDividend(day date.Date, memo, security string, amount Money) Dividend {
	return Dividend{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdDividend, Date: day, Memo: memo}, Security: security},
		Amount: amount,
	}
}

func (t Dividend) Equal(other Transaction) bool {
	o, ok := other.(Dividend)
	return ok && t.secCmd == o.secCmd && t.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for Dividend.
func (t Dividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Dividend) validate() error {
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	return nil
}

// --- Deposit ---

// Deposit represents external cash entering the portfolio. It updates the
// cash balance and emits a cash-flow event; it never affects any lot.
type Deposit struct {
	baseCmd
	Amount Money
}

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day date.Date, memo string, amount Money) Deposit {
	return Deposit{baseCmd: baseCmd{Command: CmdDeposit, Date: day, Memo: memo}, Amount: amount}
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseCmd == o.baseCmd && t.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Deposit) validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	return nil
}

// --- Withdraw ---

// Withdraw represents external cash leaving the portfolio. Like Deposit it
// only moves cash and emits a cash-flow event.
type Withdraw struct {
	baseCmd
	Amount Money
}

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(day date.Date, memo string, amount Money) Withdraw {
	return Withdraw{baseCmd: baseCmd{Command: CmdWithdraw, Date: day, Memo: memo}, Amount: amount}
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseCmd == o.baseCmd && t.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for Withdraw.
func (t Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t Withdraw) validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	return nil
}
