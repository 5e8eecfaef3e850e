package date

import (
	"testing"
	"time"
)

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different times")
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		from, to Date
		want     int
	}{
		{New(2024, time.January, 1), New(2024, time.January, 1), 0},
		{New(2024, time.January, 1), New(2024, time.January, 31), 30},
		{New(2024, time.February, 1), New(2024, time.March, 1), 29}, // leap year
		{New(2024, time.March, 1), New(2024, time.February, 1), -29},
		{New(2023, time.June, 15), New(2025, time.June, 14), 730},
	}
	for _, tc := range tests {
		if got := tc.from.DaysUntil(tc.to); got != tc.want {
			t.Errorf("DaysUntil(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStartEndOf(t *testing.T) {
	d := New(2025, time.August, 13) // a Wednesday

	tests := []struct {
		period     Period
		start, end Date
	}{
		{Daily, d, d},
		{Weekly, New(2025, time.August, 11), New(2025, time.August, 17)},
		{Monthly, New(2025, time.August, 1), New(2025, time.August, 31)},
		{Quarterly, New(2025, time.July, 1), New(2025, time.September, 30)},
		{Yearly, New(2025, time.January, 1), New(2025, time.December, 31)},
	}
	for _, tc := range tests {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := d.StartOf(tc.period); got != tc.start {
				t.Errorf("StartOf(%s) = %s, want %s", tc.period, got, tc.start)
			}
			if got := d.EndOf(tc.period); got != tc.end {
				t.Errorf("EndOf(%s) = %s, want %s", tc.period, got, tc.end)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, str := range []string{"2025-01-02", "2025-7-1"} {
		d, err := Parse(str)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", str, err)
		}
		back, err := Parse(d.String())
		if err != nil || back != d {
			t.Errorf("round trip of %q: got %v (%v)", str, back, err)
		}
	}
}
