package folio

import (
	"fmt"
	"iter"
	"sort"

	"github.com/folioquant/folio/date"
)

// Ledger represents a list of transactions for a single portfolio.
//
// In a Ledger transactions are always in chronological order. Transactions on
// the same day keep their insertion order.
type Ledger struct {
	transactions []Transaction
	instruments  map[string]Instrument // indexed by ticker
	currency     string                // base currency of cash and valuations
	policy       MatchingPolicy
}

// NewLedger creates an empty ledger holding cash in the given base currency,
// matching sells against lots with FIFO.
func NewLedger(currency string) *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		instruments:  make(map[string]Instrument),
		currency:     currency,
		policy:       FIFO,
	}
}

// WithMatching sets the lot matching policy used when replaying sells.
func (l *Ledger) WithMatching(policy MatchingPolicy) *Ledger {
	l.policy = policy
	return l
}

// Currency returns the ledger's base currency.
func (l *Ledger) Currency() string { return l.currency }

// Instrument returns the instrument declared with this ticker, or nil if unknown.
func (l *Ledger) Instrument(ticker string) *Instrument {
	ins, ok := l.instruments[ticker]
	if !ok {
		return nil
	}
	return &ins
}

// Append appends transactions to this ledger and maintains the chronological
// order of transactions. Each transaction is validated before insertion; a
// declaration earlier in the batch covers the transactions that follow it, so
// a security can be declared and traded in one call. On error nothing is
// appended.
func (l *Ledger) Append(txs ...Transaction) error {
	staged := make(map[string]bool)
	for _, tx := range txs {
		if err := l.validate(tx, staged); err != nil {
			return fmt.Errorf("invalid %s transaction on %v: %w", tx.What(), tx.When(), err)
		}
		if v, ok := tx.(Declare); ok {
			staged[v.Ticker] = true
		}
	}
	l.transactions = append(l.transactions, txs...)
	l.processTx(txs...)
	l.stableSort()
	return nil
}

// validate checks one transaction against the declared instruments, staged
// holding the tickers declared earlier in the same batch.
func (l *Ledger) validate(tx Transaction, staged map[string]bool) error {
	declared := func(ticker string) bool {
		if _, ok := l.instruments[ticker]; ok {
			return true
		}
		return staged[ticker]
	}
	switch v := tx.(type) {
	case Declare:
		return v.validate()
	case Buy:
		if err := v.validate(); err != nil {
			return err
		}
		if !declared(v.Security) {
			return fmt.Errorf("undeclared security %q", v.Security)
		}
	case Sell:
		if err := v.validate(); err != nil {
			return err
		}
		if !declared(v.Security) {
			return fmt.Errorf("undeclared security %q", v.Security)
		}
	case Dividend:
		if err := v.validate(); err != nil {
			return err
		}
		if !declared(v.Security) {
			return fmt.Errorf("undeclared security %q", v.Security)
		}
	case Deposit:
		return v.validate()
	case Withdraw:
		return v.validate()
	default:
		return fmt.Errorf("unsupported transaction type: %T", tx)
	}
	return nil
}

func (l *Ledger) processTx(txs ...Transaction) {
	for _, tx := range txs {
		if v, ok := tx.(Declare); ok {
			l.instruments[v.Ticker] = v.Instrument()
		}
	}
}

// Transactions returns an iterator over the transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// OldestTransactionDate returns the date of the earliest transaction in the
// ledger, or the zero date when the ledger is empty.
func (l *Ledger) OldestTransactionDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[0].When()
}

// NewestTransactionDate returns the date of the latest transaction in the
// ledger, or the zero date when the ledger is empty.
func (l *Ledger) NewestTransactionDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}

// Position is the open holding in one instrument: its remaining lots and the
// profit already realized by sells and dividends.
type Position struct {
	Ticker    string
	Quantity  Quantity
	CostBasis Money
	Lots      []Lot
	Realized  Money // cumulative realized gain, fees deducted
	Dividends Money // cumulative dividend income
}

// CashFlowEvent is an external cash movement. Deposits are positive,
// withdrawals negative. Dividends and trades are internal and never appear
// here.
type CashFlowEvent struct {
	Date   date.Date
	Amount Money
}

// LedgerState is the result of replaying transactions in chronological order:
// cash, open lots per instrument, realized gains and external cash flows.
// A state is immutable; Apply returns a new one.
type LedgerState struct {
	asOf      date.Date
	currency  string
	policy    MatchingPolicy
	cash      Money
	positions map[string]Position
	flows     []CashFlowEvent
	lotSeq    map[string]int
}

// newLedgerState creates an empty state in the given base currency.
func newLedgerState(currency string, policy MatchingPolicy) *LedgerState {
	return &LedgerState{
		currency:  currency,
		policy:    policy,
		cash:      M(0, currency),
		positions: make(map[string]Position),
		lotSeq:    make(map[string]int),
	}
}

// clone returns a deep copy that the apply step can mutate.
func (s *LedgerState) clone() *LedgerState {
	c := &LedgerState{
		asOf:      s.asOf,
		currency:  s.currency,
		policy:    s.policy,
		cash:      s.cash,
		positions: make(map[string]Position, len(s.positions)),
		flows:     make([]CashFlowEvent, len(s.flows)),
		lotSeq:    make(map[string]int, len(s.lotSeq)),
	}
	for k, p := range s.positions {
		p.Lots = append([]Lot(nil), p.Lots...)
		c.positions[k] = p
	}
	copy(c.flows, s.flows)
	for k, v := range s.lotSeq {
		c.lotSeq[k] = v
	}
	return c
}

// Apply replays transactions onto the state and returns the resulting state.
// Transactions must not precede the state's date; a sell must not exceed the
// open quantity. On error the receiver is returned unchanged.
func (s *LedgerState) Apply(txs ...Transaction) (*LedgerState, error) {
	next := s.clone()
	for _, tx := range txs {
		if tx.When().Before(next.asOf) {
			return s, fmt.Errorf("%w: %s on %v applied after %v", ErrOutOfOrder, tx.What(), tx.When(), next.asOf)
		}
		if err := next.apply(tx); err != nil {
			return s, fmt.Errorf("%s on %v: %w", tx.What(), tx.When(), err)
		}
		next.asOf = tx.When()
	}
	return next, nil
}

func (s *LedgerState) apply(tx Transaction) error {
	switch v := tx.(type) {
	case Declare:
		// Declarations carry no cash or position effect.
	case Deposit:
		s.cash = s.cash.Add(v.Amount)
		s.flows = append(s.flows, CashFlowEvent{Date: v.Date, Amount: v.Amount})
	case Withdraw:
		s.cash = s.cash.Sub(v.Amount)
		s.flows = append(s.flows, CashFlowEvent{Date: v.Date, Amount: v.Amount.Neg()})
	case Dividend:
		pos := s.positions[v.Security]
		pos.Ticker = v.Security
		pos.Dividends = pos.Dividends.Add(v.Amount)
		s.positions[v.Security] = pos
		s.cash = s.cash.Add(v.Amount)
	case Buy:
		pos := s.positions[v.Security]
		pos.Ticker = v.Security
		s.lotSeq[v.Security]++
		pos.Lots = append(pos.Lots, Lot{
			ID:       fmt.Sprintf("%s-%d", v.Security, s.lotSeq[v.Security]),
			Date:     v.Date,
			Quantity: v.Quantity,
			Cost:     v.Cost(),
		})
		pos.Quantity = pos.Quantity.Add(v.Quantity)
		pos.CostBasis = pos.CostBasis.Add(v.Cost())
		s.positions[v.Security] = pos
		s.cash = s.cash.Sub(v.Cost())
	case Sell:
		pos := s.positions[v.Security]
		remaining, soldCost, err := lots(pos.Lots).consume(v.Quantity, s.policy, v.Lots)
		if err != nil {
			return err
		}
		pos.Ticker = v.Security
		pos.Lots = remaining
		pos.Quantity = pos.Quantity.Sub(v.Quantity)
		pos.CostBasis = pos.CostBasis.Sub(soldCost)
		pos.Realized = pos.Realized.Add(v.Proceeds().Sub(soldCost))
		s.positions[v.Security] = pos
		s.cash = s.cash.Add(v.Proceeds())
	default:
		return fmt.Errorf("unsupported transaction type: %T", tx)
	}
	return nil
}

// AsOf returns the date of the last applied transaction.
func (s *LedgerState) AsOf() date.Date { return s.asOf }

// Cash returns the cash balance in the base currency.
func (s *LedgerState) Cash() Money { return s.cash }

// Position returns the holding in one instrument, zero valued when absent.
func (s *LedgerState) Position(ticker string) Position {
	return s.positions[ticker]
}

// Positions returns the open positions, tickers sorted for a stable order.
// Closed positions with realized history are included with a zero quantity.
func (s *LedgerState) Positions() []Position {
	tickers := make([]string, 0, len(s.positions))
	for t := range s.positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	res := make([]Position, 0, len(tickers))
	for _, t := range tickers {
		res = append(res, s.positions[t])
	}
	return res
}

// CashFlows returns the external cash flow events in chronological order.
func (s *LedgerState) CashFlows() []CashFlowEvent {
	return append([]CashFlowEvent(nil), s.flows...)
}

// StateAt replays the ledger up to and including the given date.
func (l *Ledger) StateAt(on date.Date) (*LedgerState, error) {
	state := newLedgerState(l.currency, l.policy)
	var pending []Transaction
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			break
		}
		pending = append(pending, tx)
	}
	return state.Apply(pending...)
}

// HoldingsAt returns the open positions on a given date, indexed by ticker.
func (l *Ledger) HoldingsAt(on date.Date) (map[string]Position, error) {
	state, err := l.StateAt(on)
	if err != nil {
		return nil, err
	}
	res := make(map[string]Position, len(state.positions))
	for t, p := range state.positions {
		if !p.Quantity.IsZero() {
			res[t] = p
		}
	}
	return res, nil
}
