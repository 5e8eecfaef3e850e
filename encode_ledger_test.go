package folio

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeLedger(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "initial funding", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(2)),
		NewDividend(day(2025, 1, 4), "", "AAA", USD(12)),
		NewSell(day(2025, 1, 5), "", "AAA", Q(4), USD(55), USD(2)),
		NewWithdraw(day(2025, 1, 6), "", USD(100)),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}

	decoded, err := DecodeLedger(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}

	var orig, got []Transaction
	for _, tx := range l.Transactions() {
		orig = append(orig, tx)
	}
	for _, tx := range decoded.Transactions() {
		got = append(got, tx)
	}
	if len(orig) != len(got) {
		t.Fatalf("transaction count = %d, want %d", len(got), len(orig))
	}
	for i := range orig {
		if !orig[i].Equal(got[i]) {
			t.Errorf("transaction %d changed in round trip:\n  %v\n  %v", i, orig[i], got[i])
		}
	}
}

func TestEncodeLedgerIsCanonical(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l, NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(2)))

	var first, second bytes.Buffer
	if err := EncodeLedger(&first, l); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}
	if err := EncodeLedger(&second, l); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}
	if first.String() != second.String() {
		t.Error("repeated encoding differs")
	}
}

func TestDecodeLedgerSpecificLots(t *testing.T) {
	l := newTestLedger(t).WithMatching(SpecificLot)
	mustAppend(t, l,
		NewBuy(day(2025, 1, 3), "", "AAA", Q(1), USD(10), USD(0)),
		NewBuy(day(2025, 1, 4), "", "AAA", Q(1), USD(20), USD(0)),
		NewSell(day(2025, 1, 5), "", "AAA", Q(1), USD(15), USD(0)).WithLots("AAA-2"),
	)
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}
	decoded, err := DecodeLedger(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	for _, tx := range decoded.Transactions() {
		if sell, ok := tx.(Sell); ok {
			if len(sell.Lots) != 1 || sell.Lots[0] != "AAA-2" {
				t.Errorf("sell lots = %v, want [AAA-2]", sell.Lots)
			}
		}
	}
}

func TestDecodeLedgerRejectsUnknownCommand(t *testing.T) {
	input := `{"command":"split","date":"2025-01-03"}`
	if _, err := DecodeLedger(strings.NewReader(input), "USD"); err == nil {
		t.Fatal("expected error for unknown command, got none")
	}
}
