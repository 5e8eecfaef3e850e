package folio

import (
	"errors"
	"math"
	"testing"

	"github.com/folioquant/folio/date"
)

func TestTotalReturn(t *testing.T) {
	r, err := TotalReturn(100, 110)
	if err != nil {
		t.Fatalf("TotalReturn: %v", err)
	}
	if math.Abs(r-0.10) > 1e-12 {
		t.Errorf("total return = %g, want 0.10", r)
	}
	if _, err := TotalReturn(0, 110); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("zero start error = %v, want ErrInvalidPeriod", err)
	}
}

func TestCAGRTwoYears(t *testing.T) {
	// 100 to 121 over two years is close to 10% per year on a 365.25 basis.
	r, err := CAGR(100, 121, 730)
	if err != nil {
		t.Fatalf("CAGR: %v", err)
	}
	if math.Abs(r-0.10) > 1e-3 {
		t.Errorf("cagr = %g, want ~0.10", r)
	}
	if _, err := CAGR(100, 121, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("zero days error = %v, want ErrInvalidPeriod", err)
	}
	if _, err := CAGR(-100, 121, 730); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("negative start error = %v, want ErrInvalidPeriod", err)
	}
}

// valuesWithFlows builds the value history produced by a sequence of daily
// market returns when deposits arrive before each day's valuation.
func valuesWithFlows(t *testing.T, start float64, daily []float64, deposits map[int]float64) (date.History[float64], []CashFlowEvent) {
	t.Helper()
	var h date.History[float64]
	var flows []CashFlowEvent
	v := start
	h.Append(day(2025, 1, 1), v)
	for i, r := range daily {
		on := day(2025, 1, 2+i)
		if f, ok := deposits[i]; ok {
			v += f
			flows = append(flows, CashFlowEvent{Date: on, Amount: USD(f)})
		}
		v *= 1 + r
		h.Append(on, v)
	}
	return h, flows
}

func TestTWRInsensitiveToFlows(t *testing.T) {
	daily := []float64{0.01, 0.02, -0.01}
	want := 1.01*1.02*0.99 - 1

	noFlows, _ := valuesWithFlows(t, 1000, daily, nil)
	r1, err := TWR(noFlows, nil, TWRExact)
	if err != nil {
		t.Fatalf("TWR without flows: %v", err)
	}
	withFlows, flows := valuesWithFlows(t, 1000, daily, map[int]float64{1: 5000})
	r2, err := TWR(withFlows, flows, TWRExact)
	if err != nil {
		t.Fatalf("TWR with flows: %v", err)
	}

	if math.Abs(r1-want) > 1e-9 {
		t.Errorf("twr = %g, want %g", r1, want)
	}
	if math.Abs(r1-r2) > 1e-9 {
		t.Errorf("twr moved from %g to %g when a deposit was added", r1, r2)
	}
}

func TestTWRExactFlowBetweenSparseValuations(t *testing.T) {
	// With a monthly valuation cadence, a deposit landing mid-month must be
	// deducted from the sub-period growth, whatever its size.
	for _, deposit := range []float64{100, 200} {
		var h date.History[float64]
		h.Append(day(2025, 1, 1), 1000)
		h.Append(day(2025, 2, 1), (1000+deposit)*1.10)
		flows := []CashFlowEvent{{Date: day(2025, 1, 15), Amount: USD(deposit)}}

		r, err := TWR(h, flows, TWRExact)
		if err != nil {
			t.Fatalf("TWR with %g deposit: %v", deposit, err)
		}
		if math.Abs(r-0.10) > 1e-9 {
			t.Errorf("twr with %g deposit = %g, want 0.10", deposit, r)
		}
	}
}

func TestTWRNeedsTwoPoints(t *testing.T) {
	var h date.History[float64]
	h.Append(day(2025, 1, 1), 100)
	if _, err := TWR(h, nil, TWRExact); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("single point error = %v, want ErrInsufficientData", err)
	}
}

func TestDietzMatchesSimpleReturnWithoutFlows(t *testing.T) {
	var h date.History[float64]
	h.Append(day(2025, 1, 1), 100)
	h.Append(day(2025, 12, 31), 112)
	r, err := TWR(h, nil, TWRDietz)
	if err != nil {
		t.Fatalf("TWR dietz: %v", err)
	}
	if math.Abs(r-0.12) > 1e-9 {
		t.Errorf("dietz = %g, want 0.12", r)
	}
}

func TestDietzWeightsMidPeriodFlow(t *testing.T) {
	var h date.History[float64]
	h.Append(day(2025, 1, 1), 100)
	h.Append(day(2025, 1, 21), 130)
	flows := []CashFlowEvent{{Date: day(2025, 1, 11), Amount: USD(20)}}
	r, err := TWR(h, flows, TWRDietz)
	if err != nil {
		t.Fatalf("TWR dietz: %v", err)
	}
	// gain 10 over base 100 + 0.5*20.
	if math.Abs(r-10.0/110.0) > 1e-9 {
		t.Errorf("dietz = %g, want %g", r, 10.0/110.0)
	}
}

func TestMWRWithoutFlowsMatchesCAGR(t *testing.T) {
	r := date.NewRange(day(2024, 1, 1), day(2026, 1, 1))
	mwr, err := MWR(100, 121, r, nil)
	if err != nil {
		t.Fatalf("MWR: %v", err)
	}
	cagr, err := CAGR(100, 121, r.From.DaysUntil(r.To))
	if err != nil {
		t.Fatalf("CAGR: %v", err)
	}
	if math.Abs(mwr-cagr) > 1e-6 {
		t.Errorf("mwr = %g, cagr = %g, want equal without flows", mwr, cagr)
	}
}

func TestMWRRisesWithEndValue(t *testing.T) {
	r := date.NewRange(day(2025, 1, 1), day(2026, 1, 1))
	flows := []CashFlowEvent{{Date: day(2025, 7, 1), Amount: USD(50)}}
	low, err := MWR(100, 155, r, flows)
	if err != nil {
		t.Fatalf("MWR low: %v", err)
	}
	high, err := MWR(100, 170, r, flows)
	if err != nil {
		t.Fatalf("MWR high: %v", err)
	}
	if high <= low {
		t.Errorf("mwr did not rise with end value: %g then %g", low, high)
	}
}

func TestMWRNoConvergence(t *testing.T) {
	r := date.NewRange(day(2025, 1, 1), day(2025, 1, 2))
	if _, err := MWR(100, 1e9, r, nil); !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("unreachable rate error = %v, want ErrNoConvergence", err)
	}
}

func TestMWREmptyRange(t *testing.T) {
	r := date.Range{From: day(2025, 1, 1), To: day(2025, 1, 1)}
	if _, err := MWR(100, 110, r, nil); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("empty range error = %v, want ErrInvalidPeriod", err)
	}
}

func TestRollingWindows(t *testing.T) {
	var s ReturnSeries
	for i, r := range []float64{0.01, 0.02, 0.03, 0.04, 0.05} {
		s.Append(day(2025, 1, 1+i), r)
	}
	mean := func(xs []float64) (float64, error) {
		var sum float64
		for _, x := range xs {
			sum += x
		}
		return sum / float64(len(xs)), nil
	}

	var got []float64
	for _, v := range Rolling(&s, 3, mean) {
		got = append(got, v)
	}
	want := []float64{0.02, 0.03, 0.04}
	if len(got) != len(want) {
		t.Fatalf("window count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("window %d = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestRollingIsRestartable(t *testing.T) {
	var s ReturnSeries
	for i, r := range []float64{0.01, 0.02, 0.03, 0.04} {
		s.Append(day(2025, 1, 1+i), r)
	}
	identity := func(xs []float64) (float64, error) { return xs[len(xs)-1], nil }
	seq := Rolling(&s, 2, identity)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != second {
		t.Errorf("restarted sequence yields %d then %d windows", first, second)
	}
	// An early break must not poison later runs.
	for range seq {
		break
	}
	if n := count(); n != 3 {
		t.Errorf("window count after break = %d, want 3", n)
	}
}
