package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd reads a ledger money value from its two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// tradeCmd reads the fields shared by buy and sell lines. The amount is the
// unit price; the fee shares the same currency.
type tradeCmd struct {
	secCmd
	amountCmd
	Quantity Quantity        `json:"quantity"`
	Fee      decimal.Decimal `json:"fee"`
	Lots     []string        `json:"lots"`
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted ledger in the given base
// currency.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction
		switch identifier.Command {
		case CmdBuy:
			var temp tradeCmd
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Buy{
				secCmd:   temp.secCmd,
				Quantity: temp.Quantity,
				Price:    temp.Money(),
				Fee:      M(temp.Fee, temp.Currency),
			}
		case CmdSell:
			var temp tradeCmd
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Sell{
				secCmd:   temp.secCmd,
				Quantity: temp.Quantity,
				Price:    temp.Money(),
				Fee:      M(temp.Fee, temp.Currency),
				Lots:     temp.Lots,
			}
		case CmdDividend:
			var temp struct {
				secCmd
				amountCmd
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Dividend{secCmd: temp.secCmd, Amount: temp.Money()}
		case CmdDeposit:
			var temp struct {
				baseCmd
				amountCmd
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Deposit{baseCmd: temp.baseCmd, Amount: temp.Money()}
		case CmdWithdraw:
			var temp struct {
				baseCmd
				amountCmd
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decodedTx = Withdraw{baseCmd: temp.baseCmd, Amount: temp.Money()}
		case CmdDeclare:
			var tx Declare
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, err
			}
			decodedTx = tx
		default:
			return nil, fmt.Errorf("unknown transaction command: %q", identifier.Command)
		}

		if err := ledger.Append(decodedTx); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger to an io.Writer in JSONL format, in
// chronological order with a stable field order, so encoding is canonical
// and the file diffs cleanly.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
