package folio

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PathModel generates one simulated price path from a dedicated random
// source. Implementations must draw all randomness from src so that runs are
// reproducible for a given seed.
type PathModel interface {
	// GeneratePath returns steps+1 values, the first being start.
	GeneratePath(start float64, steps int, src rand.Source) []float64
	// Validate rejects out-of-domain model parameters.
	Validate() error
}

// GBM is a geometric Brownian motion price model with annual drift Mu,
// annual volatility Sigma, and time step Dt in years.
type GBM struct {
	Mu    float64
	Sigma float64
	Dt    float64
}

// Validate implements PathModel.
func (g GBM) Validate() error {
	if g.Sigma < 0 {
		return fmt.Errorf("%w: volatility %g is negative", ErrInvalidParameter, g.Sigma)
	}
	if g.Dt <= 0 {
		return fmt.Errorf("%w: time step %g is not positive", ErrInvalidParameter, g.Dt)
	}
	return nil
}

// GeneratePath implements PathModel with the exact log-normal increment,
// so the discretization is unbiased at any step size.
func (g GBM) GeneratePath(start float64, steps int, src rand.Source) []float64 {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	drift := (g.Mu - 0.5*g.Sigma*g.Sigma) * g.Dt
	diffusion := g.Sigma * math.Sqrt(g.Dt)

	path := make([]float64, steps+1)
	path[0] = start
	for i := 1; i <= steps; i++ {
		path[i] = path[i-1] * math.Exp(drift+diffusion*normal.Rand())
	}
	return path
}

// EstimateGBM fits drift and volatility from a log-return series sampled at
// dt-year intervals (1.0/252 for daily data).
func EstimateGBM(returns []float64, dt float64) (GBM, error) {
	if dt <= 0 {
		return GBM{}, fmt.Errorf("%w: time step %g is not positive", ErrInvalidParameter, dt)
	}
	if len(returns) < 2 {
		return GBM{}, fmt.Errorf("%w: %d observations", ErrInsufficientData, len(returns))
	}
	logs := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r <= -1 {
			return GBM{}, fmt.Errorf("%w: return %g is a full loss", ErrInvalidParameter, r)
		}
		logs = append(logs, math.Log1p(r))
	}
	mean, std := stat.MeanStdDev(logs, nil)
	sigma := std / math.Sqrt(dt)
	mu := mean/dt + 0.5*sigma*sigma
	return GBM{Mu: mu, Sigma: sigma, Dt: dt}, nil
}

// SimulationConfig parameterizes a Monte Carlo run. The seed is explicit:
// the same config always produces the same result, bit for bit, whatever
// the number of workers.
type SimulationConfig struct {
	Paths   int
	Steps   int    // steps per path
	Seed    uint64 // root of the per-path seed sequence
	Workers int    // parallel workers, 1 when zero
}

func (c SimulationConfig) validate() error {
	if c.Paths <= 0 {
		return fmt.Errorf("%w: %d paths", ErrInvalidParameter, c.Paths)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: %d steps", ErrInvalidParameter, c.Steps)
	}
	return nil
}

// SimulationResult holds the terminal values of every simulated path, in
// path order, together with summary statistics.
type SimulationResult struct {
	RunID     uuid.UUID
	Seed      uint64
	Terminals []float64 // terminal value per path index
	Mean      float64
	Std       float64

	sorted []float64
}

// Percentile returns the p-quantile (0 < p < 1) of the terminal values.
func (r *SimulationResult) Percentile(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: percentile %g outside (0, 1)", ErrInvalidParameter, p)
	}
	return stat.Quantile(p, stat.Empirical, r.sorted, nil), nil
}

// Simulate runs a Monte Carlo simulation of a starting value under a path
// model. Each path draws from its own source seeded with Seed plus the path
// index, so results never depend on worker scheduling.
func Simulate(start float64, model PathModel, cfg SimulationConfig) (*SimulationResult, error) {
	if start <= 0 {
		return nil, fmt.Errorf("%w: starting value %g is not positive", ErrInvalidParameter, start)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	terminals := make([]float64, cfg.Paths)
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				src := rand.NewSource(cfg.Seed + uint64(p))
				path := model.GeneratePath(start, cfg.Steps, src)
				terminals[p] = path[len(path)-1]
			}
		}()
	}
	for p := 0; p < cfg.Paths; p++ {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	sorted := append([]float64(nil), terminals...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(terminals, nil)

	return &SimulationResult{
		RunID:     uuid.New(),
		Seed:      cfg.Seed,
		Terminals: terminals,
		Mean:      mean,
		Std:       std,
		sorted:    sorted,
	}, nil
}
