package folio

import (
	"fmt"
	"math"
	"sort"

	"github.com/folioquant/folio/date"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// tradingDaysPerYear annualizes metrics computed on daily returns.
const tradingDaysPerYear = 252

// welford accumulates mean and variance in a single pass. The recurrence is
// numerically stable for long series where the naive sum of squares is not.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// variance returns the sample variance (n-1 denominator).
func (w *welford) variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

// Mean returns the arithmetic mean of the returns.
func Mean(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: empty series", ErrInsufficientData)
	}
	var w welford
	for _, r := range returns {
		w.add(r)
	}
	return w.mean, nil
}

// Volatility returns the sample standard deviation of the returns, per
// observation period.
func Volatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: %d observations", ErrInsufficientData, len(returns))
	}
	var w welford
	for _, r := range returns {
		w.add(r)
	}
	return math.Sqrt(w.variance()), nil
}

// AnnualizedVolatility scales the daily volatility to a yearly horizon.
func AnnualizedVolatility(returns []float64) (float64, error) {
	vol, err := Volatility(returns)
	if err != nil {
		return 0, err
	}
	return vol * math.Sqrt(tradingDaysPerYear), nil
}

// Sharpe returns the annualized Sharpe ratio of daily returns against an
// annual risk-free rate. A constant series has no defined ratio.
func Sharpe(returns []float64, riskFreeRate float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: %d observations", ErrInsufficientData, len(returns))
	}
	var w welford
	dailyRf := riskFreeRate / tradingDaysPerYear
	for _, r := range returns {
		w.add(r - dailyRf)
	}
	std := math.Sqrt(w.variance())
	if std == 0 {
		return 0, fmt.Errorf("%w: constant excess returns", ErrDegenerateSeries)
	}
	return w.mean / std * math.Sqrt(tradingDaysPerYear), nil
}

// Sortino is like Sharpe but penalizes only downside deviation below the
// risk-free rate.
func Sortino(returns []float64, riskFreeRate float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: %d observations", ErrInsufficientData, len(returns))
	}
	dailyRf := riskFreeRate / tradingDaysPerYear
	var w welford
	var downside float64
	for _, r := range returns {
		excess := r - dailyRf
		w.add(excess)
		if excess < 0 {
			downside += excess * excess
		}
	}
	dd := math.Sqrt(downside / float64(len(returns)))
	if dd == 0 {
		return 0, fmt.Errorf("%w: no downside deviation", ErrDegenerateSeries)
	}
	return w.mean / dd * math.Sqrt(tradingDaysPerYear), nil
}

// Drawdown describes the deepest peak-to-trough decline of a value history.
// Depth is negative (a -0.25 depth is a 25% decline).
type Drawdown struct {
	Depth  float64
	Peak   date.Date
	Trough date.Date
}

// MaxDrawdown scans a value history for its deepest decline. An empty or
// single-point history is an ErrInsufficientData.
func MaxDrawdown(values date.History[float64]) (Drawdown, error) {
	if values.Len() < 2 {
		return Drawdown{}, fmt.Errorf("%w: %d valuation points", ErrInsufficientData, values.Len())
	}
	var dd Drawdown
	var peakValue float64
	var peakDate date.Date
	first := true
	for on, v := range values.Values() {
		if first || v > peakValue {
			peakValue, peakDate = v, on
			first = false
			continue
		}
		if peakValue <= 0 {
			return Drawdown{}, fmt.Errorf("%w: non-positive peak value on %v", ErrDegenerateSeries, peakDate)
		}
		if depth := v/peakValue - 1; depth < dd.Depth {
			dd.Depth = depth
			dd.Peak = peakDate
			dd.Trough = on
		}
	}
	return dd, nil
}

// VaRMode selects how value-at-risk is estimated. There is no default: the
// caller must choose historical or parametric explicitly.
type VaRMode int

const (
	// Historical reads the loss quantile from the empirical distribution.
	Historical VaRMode = iota + 1
	// Parametric fits a normal distribution and reads its quantile.
	Parametric
)

func (m VaRMode) String() string {
	switch m {
	case Historical:
		return "historical"
	case Parametric:
		return "parametric"
	default:
		return "unknown"
	}
}

// ParseVaRMode parses a string into a VaRMode.
func ParseVaRMode(s string) (VaRMode, error) {
	switch s {
	case "historical":
		return Historical, nil
	case "parametric":
		return Parametric, nil
	default:
		return 0, fmt.Errorf("unknown value-at-risk mode: %q", s)
	}
}

// DefaultVaRMinSample is the minimum sample size when VaRConfig leaves it zero.
const DefaultVaRMinSample = 30

// VaRConfig parameterizes value-at-risk estimation.
type VaRConfig struct {
	Confidence float64 // e.g. 0.95
	Mode       VaRMode
	MinSample  int // minimum observations, DefaultVaRMinSample when zero
}

func (c VaRConfig) validate(n int) error {
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("%w: confidence %g outside (0, 1)", ErrInvalidParameter, c.Confidence)
	}
	if c.Mode != Historical && c.Mode != Parametric {
		return fmt.Errorf("%w: value-at-risk mode not set", ErrInvalidParameter)
	}
	min := c.MinSample
	if min == 0 {
		min = DefaultVaRMinSample
	}
	if n < min {
		return fmt.Errorf("%w: %d observations, minimum %d", ErrInsufficientData, n, min)
	}
	return nil
}

// VaR estimates the value-at-risk of a return series: the loss threshold, as
// a positive fraction, that returns breach with probability 1-confidence.
func VaR(returns []float64, cfg VaRConfig) (float64, error) {
	if err := cfg.validate(len(returns)); err != nil {
		return 0, err
	}
	switch cfg.Mode {
	case Historical:
		sorted := append([]float64(nil), returns...)
		sort.Float64s(sorted)
		q := stat.Quantile(1-cfg.Confidence, stat.Empirical, sorted, nil)
		return -q, nil
	default:
		mu, sigma := stat.MeanStdDev(returns, nil)
		if sigma == 0 {
			return 0, fmt.Errorf("%w: constant returns", ErrDegenerateSeries)
		}
		dist := distuv.Normal{Mu: mu, Sigma: sigma}
		return -dist.Quantile(1 - cfg.Confidence), nil
	}
}

// CVaR estimates the conditional value-at-risk: the expected loss given that
// the loss exceeds the VaR threshold.
func CVaR(returns []float64, cfg VaRConfig) (float64, error) {
	if err := cfg.validate(len(returns)); err != nil {
		return 0, err
	}
	switch cfg.Mode {
	case Historical:
		sorted := append([]float64(nil), returns...)
		sort.Float64s(sorted)
		threshold := stat.Quantile(1-cfg.Confidence, stat.Empirical, sorted, nil)
		var sum float64
		var n int
		for _, r := range sorted {
			if r <= threshold {
				sum += r
				n++
			}
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: no observations in the tail", ErrInsufficientData)
		}
		return -sum / float64(n), nil
	default:
		mu, sigma := stat.MeanStdDev(returns, nil)
		if sigma == 0 {
			return 0, fmt.Errorf("%w: constant returns", ErrDegenerateSeries)
		}
		// Closed form for the normal tail expectation.
		std := distuv.Normal{Mu: 0, Sigma: 1}
		z := std.Quantile(1 - cfg.Confidence)
		return -(mu - sigma*std.Prob(z)/(1-cfg.Confidence)), nil
	}
}

// Beta regresses portfolio returns against benchmark returns over their
// common dates. A flat benchmark has no defined beta.
func Beta(portfolio, benchmark *ReturnSeries) (float64, error) {
	p, b, err := portfolio.Align(benchmark)
	if err != nil {
		return 0, err
	}
	variance := stat.Variance(b, nil)
	if variance == 0 {
		return 0, fmt.Errorf("%w: benchmark has zero variance", ErrDegenerateSeries)
	}
	return stat.Covariance(p, b, nil) / variance, nil
}

// InformationRatio is the annualized mean active return over its tracking
// error, computed on the common dates of the two series.
func InformationRatio(portfolio, benchmark *ReturnSeries) (float64, error) {
	p, b, err := portfolio.Align(benchmark)
	if err != nil {
		return 0, err
	}
	var w welford
	for i := range p {
		w.add(p[i] - b[i])
	}
	te := math.Sqrt(w.variance())
	if te == 0 {
		return 0, fmt.Errorf("%w: zero tracking error", ErrDegenerateSeries)
	}
	return w.mean / te * math.Sqrt(tradingDaysPerYear), nil
}
