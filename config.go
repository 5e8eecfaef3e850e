package folio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a portfolio: where its files live and how its
// metrics are computed. It maps one-to-one onto the YAML config file.
type Config struct {
	LedgerFile string `yaml:"ledger"`
	PricesFile string `yaml:"prices"`

	Currency string `yaml:"currency"`
	Matching string `yaml:"matching"` // fifo, lifo or specific

	Returns struct {
		Convention string `yaml:"convention"` // exact or dietz
	} `yaml:"returns"`

	Risk struct {
		FreeRate   float64 `yaml:"free_rate"` // annual risk-free rate
		Confidence float64 `yaml:"confidence"`
		VaRMode    string  `yaml:"var_mode"` // historical or parametric
		MinSample  int     `yaml:"min_sample"`
	} `yaml:"risk"`

	Simulation struct {
		Paths   int    `yaml:"paths"`
		Steps   int    `yaml:"steps"`
		Seed    uint64 `yaml:"seed"`
		Workers int    `yaml:"workers"`
	} `yaml:"simulation"`
}

// DefaultConfig returns the settings used when no config file exists. The
// value-at-risk mode stays empty on purpose: it must be chosen explicitly.
func DefaultConfig() Config {
	var c Config
	c.LedgerFile = "ledger.jsonl"
	c.PricesFile = "prices.jsonl"
	c.Currency = "USD"
	c.Matching = FIFO.String()
	c.Returns.Convention = TWRExact.String()
	c.Risk.Confidence = 0.95
	c.Simulation.Paths = 1000
	c.Simulation.Steps = 252
	c.Simulation.Seed = 42
	return c
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the enumerated and numeric fields.
func (c Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("currency is missing")
	}
	if _, err := ParseMatchingPolicy(c.Matching); err != nil {
		return err
	}
	if _, err := ParseTWRConvention(c.Returns.Convention); err != nil {
		return err
	}
	if c.Risk.VaRMode != "" {
		if _, err := ParseVaRMode(c.Risk.VaRMode); err != nil {
			return err
		}
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		return fmt.Errorf("confidence %g outside (0, 1)", c.Risk.Confidence)
	}
	if c.Risk.MinSample < 0 {
		return fmt.Errorf("min_sample %d is negative", c.Risk.MinSample)
	}
	if c.Simulation.Paths <= 0 || c.Simulation.Steps <= 0 {
		return fmt.Errorf("simulation needs positive paths and steps")
	}
	return nil
}

// MatchingPolicy returns the parsed lot matching policy.
func (c Config) MatchingPolicy() MatchingPolicy {
	p, _ := ParseMatchingPolicy(c.Matching)
	return p
}

// TWRConvention returns the parsed time-weighted return convention.
func (c Config) TWRConvention() TWRConvention {
	conv, _ := ParseTWRConvention(c.Returns.Convention)
	return conv
}

// VaRConfig returns the value-at-risk settings. The error reminds the caller
// that the mode has no default.
func (c Config) VaRConfig() (VaRConfig, error) {
	mode, err := ParseVaRMode(c.Risk.VaRMode)
	if err != nil {
		return VaRConfig{}, fmt.Errorf("%w: var_mode must be set", ErrInvalidParameter)
	}
	return VaRConfig{
		Confidence: c.Risk.Confidence,
		Mode:       mode,
		MinSample:  c.Risk.MinSample,
	}, nil
}

// SimulationConfig returns the Monte Carlo settings.
func (c Config) SimulationConfig() SimulationConfig {
	return SimulationConfig{
		Paths:   c.Simulation.Paths,
		Steps:   c.Simulation.Steps,
		Seed:    c.Simulation.Seed,
		Workers: c.Simulation.Workers,
	}
}
