package folio

import (
	"bytes"
	"math"
	"testing"

	"github.com/folioquant/folio/date"
)

func TestMarketDataAsOfLookup(t *testing.T) {
	m := NewMarketData()
	m.SetPrice("AAA", day(2025, 1, 3), 50)
	m.SetPrice("AAA", day(2025, 1, 6), 55)

	tests := []struct {
		on   date.Date
		want float64
		ok   bool
	}{
		{day(2025, 1, 2), 0, false},
		{day(2025, 1, 3), 50, true},
		{day(2025, 1, 5), 50, true}, // weekend gap falls back
		{day(2025, 1, 6), 55, true},
		{day(2025, 1, 10), 55, true},
	}
	for _, tt := range tests {
		got, ok := m.Price("AAA", tt.on)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Price(AAA, %v) = %g, %v, want %g, %v", tt.on, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := m.Price("ZZZ", day(2025, 1, 3)); ok {
		t.Error("unknown ticker reported a price")
	}
}

func TestMarketDataReturns(t *testing.T) {
	m := NewMarketData()
	m.SetPrice("AAA", day(2025, 1, 1), 100)
	m.SetPrice("AAA", day(2025, 1, 2), 110)
	m.SetPrice("AAA", day(2025, 1, 3), 99)

	s := m.Returns("AAA", date.NewRange(day(2025, 1, 1), day(2025, 1, 3)))
	got := s.Values()
	want := []float64{0.10, -0.10}
	if len(got) != len(want) {
		t.Fatalf("return count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("return %d = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestEncodeDecodeMarketData(t *testing.T) {
	m := NewMarketData()
	m.SetPrice("BBB", day(2025, 1, 2), 20.5)
	m.SetPrice("AAA", day(2025, 1, 1), 100)

	var buf bytes.Buffer
	if err := EncodeMarketData(&buf, m); err != nil {
		t.Fatalf("EncodeMarketData: %v", err)
	}
	decoded, err := DecodeMarketData(&buf)
	if err != nil {
		t.Fatalf("DecodeMarketData: %v", err)
	}
	if px, ok := decoded.Price("BBB", day(2025, 1, 2)); !ok || px != 20.5 {
		t.Errorf("BBB price = %g, %v, want 20.5", px, ok)
	}
	if got := decoded.Tickers(); len(got) != 2 || got[0] != "AAA" {
		t.Errorf("tickers = %v, want [AAA BBB]", got)
	}
}
