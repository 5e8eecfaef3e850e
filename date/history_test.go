package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 7, 1), "25 Jul 1"
	d2, v2 := New(2024, 7, 1), "24 Jul 1"

	// Append two values in reverse order and check the series stays sorted.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 10), 100)
	h.Append(New(2025, 1, 20), 110)

	tests := []struct {
		name  string
		day   Date
		want  float64
		found bool
	}{
		{"before first point", New(2025, 1, 5), 0, false},
		{"exactly on a point", New(2025, 1, 10), 100, true},
		{"between points", New(2025, 1, 15), 100, true},
		{"after last point", New(2025, 2, 1), 110, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.day)
			if ok != tc.found || got != tc.want {
				t.Errorf("ValueAsOf(%s) = %v, %v want %v, %v", tc.day, got, ok, tc.want, tc.found)
			}
		})
	}
}

func TestAppendOverwrites(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 3, 3), 1)
	h.Append(New(2025, 3, 3), 2)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d want 1", h.Len())
	}
	if v, _ := h.Get(New(2025, 3, 3)); v != 2 {
		t.Errorf("Get() = %v want 2", v)
	}
}
