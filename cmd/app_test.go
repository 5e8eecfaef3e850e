package cmd

import (
	"testing"

	"github.com/folioquant/folio/date"
)

func TestParseDay(t *testing.T) {
	fallback := date.New(2025, 6, 1)

	day, err := parseDay("", fallback)
	if err != nil || day != fallback {
		t.Errorf("parseDay empty = %v, %v, want fallback %v", day, err, fallback)
	}

	day, err = parseDay("2025-03-15", fallback)
	if err != nil || day != date.New(2025, 3, 15) {
		t.Errorf("parseDay = %v, %v, want 2025-03-15", day, err)
	}

	if _, err := parseDay("not-a-date", fallback); err == nil {
		t.Error("parseDay accepted garbage")
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := parseMoves([]string{"AAA=-0.2", "BBB=0.05"})
	if err != nil {
		t.Fatalf("parseMoves: %v", err)
	}
	if moves["AAA"] != -0.2 || moves["BBB"] != 0.05 {
		t.Errorf("parseMoves = %v", moves)
	}

	for _, bad := range [][]string{nil, {"AAA"}, {"=0.1"}, {"AAA=ten"}} {
		if _, err := parseMoves(bad); err == nil {
			t.Errorf("parseMoves(%v) accepted invalid input", bad)
		}
	}
}
