package folio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSnapshot values a two-position portfolio for scenario tests.
func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	l := newTestLedger(t)
	mustAppend(t, l,
		NewDeposit(day(2025, 1, 2), "", USD(1000)),
		NewBuy(day(2025, 1, 3), "", "AAA", Q(10), USD(50), USD(0)),
		NewBuy(day(2025, 1, 3), "", "BBB", Q(20), USD(25), USD(0)),
	)
	snap, err := l.Snapshot(day(2025, 1, 10), fixedPrices(map[string]float64{"AAA": 50, "BBB": 25}))
	require.NoError(t, err)
	return snap
}

func TestApplyShock(t *testing.T) {
	snap := testSnapshot(t)
	res, err := ApplyShock(snap, "tech selloff", map[string]float64{"AAA": -0.20})
	require.NoError(t, err)

	// AAA loses 100 of 500, BBB and cash untouched.
	assert.True(t, res.PnL.Equal(USD(-100)), "pnl = %s", res.PnL)
	assert.True(t, res.Stressed.Equal(USD(900)), "stressed = %s", res.Stressed)
}

func TestApplyShockRejectsFullLoss(t *testing.T) {
	snap := testSnapshot(t)
	_, err := ApplyShock(snap, "wipeout", map[string]float64{"AAA": -1.0})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSectorShock(t *testing.T) {
	snap := testSnapshot(t)
	res, err := SectorShock(snap, "tech", -0.10)
	require.NoError(t, err)

	// Only AAA is in the tech sector.
	assert.True(t, res.PnL.Equal(USD(-50)), "pnl = %s", res.PnL)
}

func TestSectorShockLeavesOtherSectorsUntouched(t *testing.T) {
	snap := testSnapshot(t)
	res, err := SectorShock(snap, "energy", -0.50)
	require.NoError(t, err)
	assert.True(t, res.PnL.IsZero(), "pnl = %s", res.PnL)
}

func TestFactorStress(t *testing.T) {
	snap := testSnapshot(t)
	exposures := map[string]map[string]float64{
		"AAA": {"rates": -0.5, "growth": 1.2},
		"BBB": {"rates": -2.0},
	}
	res, err := FactorStress(snap, "rates up", exposures, map[string]float64{"rates": 0.10})
	require.NoError(t, err)

	// AAA moves -5% of 500, BBB -20% of 500.
	assert.True(t, res.PnL.Equal(USD(-125)), "pnl = %s", res.PnL)
}

func TestScenarioDoesNotModifySnapshot(t *testing.T) {
	snap := testSnapshot(t)
	before := snap.TotalValue
	_, err := ApplyShock(snap, "down", map[string]float64{"AAA": -0.5, "BBB": -0.5})
	require.NoError(t, err)
	assert.True(t, snap.TotalValue.Equal(before), "snapshot mutated by scenario")
}
