package folio

import (
	"testing"
	"time"

	"github.com/folioquant/folio/date"
)

// USD is a shortcut for M(v, "USD") in tests.
func USD(v float64) Money { return M(v, "USD") }

// day is a shortcut for date.New in tests.
func day(y, m, d int) date.Date { return date.New(y, time.Month(m), d) }

// newTestLedger creates a USD ledger with AAA and BBB declared on day one.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger("USD")
	err := l.Append(
		NewDeclare(day(2025, 1, 1), "", "AAA", "USD", "equity", "tech", "growth"),
		NewDeclare(day(2025, 1, 1), "", "BBB", "USD", "bond", "govt", "income"),
	)
	if err != nil {
		t.Fatalf("declaring securities: %v", err)
	}
	return l
}

// mustAppend appends transactions or fails the test.
func mustAppend(t *testing.T, l *Ledger, txs ...Transaction) {
	t.Helper()
	if err := l.Append(txs...); err != nil {
		t.Fatalf("appending transactions: %v", err)
	}
}
