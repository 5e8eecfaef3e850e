package folio

import (
	"testing"

	"github.com/folioquant/folio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolatility(t *testing.T) {
	vol, err := Volatility([]float64{0.01, -0.01, 0.01, -0.01})
	require.NoError(t, err)
	assert.InDelta(t, 0.01155, vol, 1e-4)

	_, err = Volatility([]float64{0.01})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSharpeDegenerateSeries(t *testing.T) {
	_, err := Sharpe([]float64{0.01, 0.01, 0.01}, 0)
	assert.ErrorIs(t, err, ErrDegenerateSeries)
}

func TestSharpeSign(t *testing.T) {
	up, err := Sharpe([]float64{0.01, 0.02, 0.015, 0.012}, 0)
	require.NoError(t, err)
	assert.Positive(t, up)

	down, err := Sharpe([]float64{-0.01, -0.02, -0.015, -0.012}, 0)
	require.NoError(t, err)
	assert.Negative(t, down)
}

func TestSortinoNoDownside(t *testing.T) {
	_, err := Sortino([]float64{0.01, 0.02, 0.03}, 0)
	assert.ErrorIs(t, err, ErrDegenerateSeries)
}

func TestMaxDrawdown(t *testing.T) {
	var h date.History[float64]
	for i, v := range []float64{100, 120, 90, 110} {
		h.Append(date.New(2025, 1, 1+i), v)
	}
	dd, err := MaxDrawdown(h)
	require.NoError(t, err)
	assert.InDelta(t, -0.25, dd.Depth, 1e-12)
	assert.Equal(t, date.New(2025, 1, 2), dd.Peak)
	assert.Equal(t, date.New(2025, 1, 3), dd.Trough)
}

func TestMaxDrawdownMonotonicSeries(t *testing.T) {
	var h date.History[float64]
	for i, v := range []float64{100, 110, 120} {
		h.Append(date.New(2025, 1, 1+i), v)
	}
	dd, err := MaxDrawdown(h)
	require.NoError(t, err)
	assert.Zero(t, dd.Depth)
}

// tailReturns is a 100-point sample with a known empirical distribution.
func tailReturns() []float64 {
	res := make([]float64, 100)
	for i := range res {
		res[i] = float64(i-50) / 1000 // -0.050 .. 0.049
	}
	return res
}

func TestVaRHistorical(t *testing.T) {
	cfg := VaRConfig{Confidence: 0.95, Mode: Historical}
	v, err := VaR(tailReturns(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.045, v, 0.002)
}

func TestVaRConfidenceOrdering(t *testing.T) {
	returns := tailReturns()
	v95, err := VaR(returns, VaRConfig{Confidence: 0.95, Mode: Historical})
	require.NoError(t, err)
	v99, err := VaR(returns, VaRConfig{Confidence: 0.99, Mode: Historical})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v99, v95)

	cv95, err := CVaR(returns, VaRConfig{Confidence: 0.95, Mode: Historical})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cv95, v95)
}

func TestVaRParametric(t *testing.T) {
	returns := make([]float64, 30)
	for i := range returns {
		returns[i] = 0.01
		if i%2 == 0 {
			returns[i] = -0.01
		}
	}
	v, err := VaR(returns, VaRConfig{Confidence: 0.95, Mode: Parametric})
	require.NoError(t, err)
	// 1.645 standard deviations below a near-zero mean.
	assert.InDelta(t, 0.0167, v, 0.002)
}

func TestVaRModeMustBeExplicit(t *testing.T) {
	_, err := VaR(tailReturns(), VaRConfig{Confidence: 0.95})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestVaRConfidenceDomain(t *testing.T) {
	_, err := VaR(tailReturns(), VaRConfig{Confidence: 1.5, Mode: Historical})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestVaRMinSample(t *testing.T) {
	short := tailReturns()[:10]
	_, err := VaR(short, VaRConfig{Confidence: 0.95, Mode: Historical})
	assert.ErrorIs(t, err, ErrInsufficientData)

	// An explicit lower minimum accepts the same sample.
	_, err = VaR(short, VaRConfig{Confidence: 0.95, Mode: Historical, MinSample: 10})
	assert.NoError(t, err)
}

func TestBeta(t *testing.T) {
	var portfolio, benchmark ReturnSeries
	for i, b := range []float64{0.01, -0.02, 0.015, 0.005} {
		benchmark.Append(date.New(2025, 1, 1+i), b)
		portfolio.Append(date.New(2025, 1, 1+i), 2*b)
	}
	beta, err := Beta(&portfolio, &benchmark)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, beta, 1e-9)
}

func TestBetaFlatBenchmark(t *testing.T) {
	var portfolio, benchmark ReturnSeries
	for i := 0; i < 4; i++ {
		benchmark.Append(date.New(2025, 1, 1+i), 0.01)
		portfolio.Append(date.New(2025, 1, 1+i), float64(i)*0.01)
	}
	_, err := Beta(&portfolio, &benchmark)
	assert.ErrorIs(t, err, ErrDegenerateSeries)
}

func TestBetaInsufficientOverlap(t *testing.T) {
	var portfolio, benchmark ReturnSeries
	portfolio.Append(date.New(2025, 1, 1), 0.01)
	portfolio.Append(date.New(2025, 1, 2), 0.02)
	benchmark.Append(date.New(2025, 1, 2), 0.01)
	benchmark.Append(date.New(2025, 1, 3), 0.02)
	_, err := Beta(&portfolio, &benchmark)
	assert.ErrorIs(t, err, ErrInsufficientOverlap)
}

func TestInformationRatio(t *testing.T) {
	var portfolio, benchmark ReturnSeries
	for i, b := range []float64{0.01, -0.02, 0.015, 0.005} {
		benchmark.Append(date.New(2025, 1, 1+i), b)
		portfolio.Append(date.New(2025, 1, 1+i), b+0.001*float64(i%2))
	}
	ir, err := InformationRatio(&portfolio, &benchmark)
	require.NoError(t, err)
	assert.Positive(t, ir)
}
