package folio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	content := `
currency: EUR
matching: lifo
returns:
  convention: dietz
risk:
  free_rate: 0.03
  confidence: 0.99
  var_mode: parametric
simulation:
  paths: 500
  seed: 7
`
	path := filepath.Join(t.TempDir(), "folio.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", c.Currency)
	}
	if c.MatchingPolicy() != LIFO {
		t.Errorf("matching = %v, want lifo", c.MatchingPolicy())
	}
	if c.TWRConvention() != TWRDietz {
		t.Errorf("convention = %v, want dietz", c.TWRConvention())
	}
	varCfg, err := c.VaRConfig()
	if err != nil {
		t.Fatalf("VaRConfig: %v", err)
	}
	if varCfg.Mode != Parametric || varCfg.Confidence != 0.99 {
		t.Errorf("var config = %+v, want parametric at 0.99", varCfg)
	}
	// Defaults survive for absent fields.
	if c.Simulation.Steps != 252 {
		t.Errorf("steps = %d, want default 252", c.Simulation.Steps)
	}
	if c.Simulation.Paths != 500 {
		t.Errorf("paths = %d, want 500", c.Simulation.Paths)
	}
}

func TestDefaultConfigLeavesVaRModeUnset(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if _, err := c.VaRConfig(); err == nil {
		t.Fatal("expected error for unset var_mode, got none")
	}
}

func TestLoadConfigRejectsBadEnum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	if err := os.WriteFile(path, []byte("matching: average\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown matching policy, got none")
	}
}
