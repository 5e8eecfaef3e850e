package folio

import (
	"testing"

	"github.com/folioquant/folio/date"
)

// fixedPrices builds a PriceLookup from a static table.
func fixedPrices(table map[string]float64) PriceLookup {
	return func(ticker string, on date.Date) (float64, bool) {
		px, ok := table[ticker]
		return px, ok
	}
}

func TestSnapshotTotalValue(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(0)),
		NewBuy(day(2025, 1, 3), "", "BBB", Q(5), USD(20), USD(0)),
	)
	snap, err := l.Snapshot(day(2025, 1, 10), fixedPrices(map[string]float64{"AAA": 60, "BBB": 22}))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Partial {
		t.Error("snapshot partial with all prices available")
	}
	// cash 400 + 10*60 + 5*22
	if want := USD(1110); !snap.TotalValue.Equal(want) {
		t.Errorf("total = %s, want %s", snap.TotalValue, want)
	}
	if want := USD(100); !snap.Positions[0].Unrealized.Equal(want) {
		t.Errorf("AAA unrealized = %s, want %s", snap.Positions[0].Unrealized, want)
	}
}

func TestSnapshotPartialData(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(0)),
		NewBuy(day(2025, 1, 3), "", "BBB", Q(5), USD(20), USD(0)),
	)
	snap, err := l.Snapshot(day(2025, 1, 10), fixedPrices(map[string]float64{"AAA": 60}))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snap.Partial {
		t.Error("snapshot not flagged partial with a missing price")
	}
	if len(snap.Missing) != 1 || snap.Missing[0] != "BBB" {
		t.Errorf("missing = %v, want [BBB]", snap.Missing)
	}
	// Unpriced BBB is excluded: cash 400 + 600.
	if want := USD(1000); !snap.TotalValue.Equal(want) {
		t.Errorf("partial total = %s, want %s", snap.TotalValue, want)
	}
}

func TestSnapshotAllocations(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(0)),
		NewBuy(day(2025, 1, 3), "", "BBB", Q(25), USD(20), USD(0)),
	)
	snap, err := l.Snapshot(day(2025, 1, 10), fixedPrices(map[string]float64{"AAA": 50, "BBB": 20}))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	byClass := snap.ByAssetClass()
	if want := Percent(50); !byClass["equity"].Equal(want) {
		t.Errorf("equity weight = %s, want %s", byClass["equity"], want)
	}
	if want := Percent(50); !byClass["bond"].Equal(want) {
		t.Errorf("bond weight = %s, want %s", byClass["bond"], want)
	}
}

func TestSnapshotUnclassifiedBucket(t *testing.T) {
	l := NewLedger("USD")
	mustAppend(t, l,
		NewDeclare(day(2025, 1, 1), "", "CCC", "USD", "", "", ""),
		NewBuy(day(2025, 1, 3), "", "CCC", Q(1), USD(100), USD(0)),
	)
	snap, err := l.Snapshot(day(2025, 1, 10), fixedPrices(map[string]float64{"CCC": 100}))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, ok := snap.ByAssetClass()[unclassified]; !ok {
		t.Error("untagged instrument missing from the unclassified bucket")
	}
}

func TestValueHistorySkipsPartialDays(t *testing.T) {
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(0)),
	)
	prices := func(ticker string, on date.Date) (float64, bool) {
		if on == day(2025, 1, 4) {
			return 0, false
		}
		return 55, true
	}
	h, err := l.ValueHistory(date.NewRange(day(2025, 1, 3), day(2025, 1, 5)), prices)
	if err != nil {
		t.Fatalf("ValueHistory: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("history length = %d, want 2", h.Len())
	}
	if _, ok := h.Get(day(2025, 1, 4)); ok {
		t.Error("partial day present in value history")
	}
}
