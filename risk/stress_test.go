package risk

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/firisk/config"
)

func TestScenarioWeights(t *testing.T) {
	t.Parallel()

	w := ScenarioWeights(8)
	require.Len(t, w, 8)
	assert.Zero(t, w[0])
	assert.InDelta(t, 1.0, w[7], 1e-15)
	for i := 1; i < len(w); i++ {
		assert.Greater(t, w[i], w[i-1])
	}

	assert.Equal(t, []float64{1.0}, ScenarioWeights(1))
	assert.Empty(t, ScenarioWeights(0))
}

func TestScenarioDeltas_TiltsDecomposeParallel(t *testing.T) {
	t.Parallel()

	const shock = 0.0025
	par, err := scenarioDeltas(ScenarioParallel, 8, shock)
	require.NoError(t, err)
	steep, err := scenarioDeltas(ScenarioSteepener, 8, shock)
	require.NoError(t, err)
	flat, err := scenarioDeltas(ScenarioFlattener, 8, shock)
	require.NoError(t, err)

	for i := range par {
		assert.InDelta(t, shock, par[i], 1e-15)
		assert.InDelta(t, par[i], steep[i]+flat[i], 1e-15, "index %d", i)
	}
	assert.Zero(t, steep[0])
	assert.Zero(t, flat[7])

	_, err = scenarioDeltas(Scenario("twist"), 8, shock)
	assert.Error(t, err)
}

func TestStress_DefaultScenarios(t *testing.T) {
	t.Parallel()

	res, err := Stress(context.Background(), testBond(t), baseSnapshot(t), testSettlement, StressOptions{Workers: 3})
	require.NoError(t, err)

	assert.InDelta(t, 25.0, res.ShockBP, 1e-15)
	require.Len(t, res.Scenarios, 3)
	for _, sc := range DefaultScenarios {
		require.Contains(t, res.Scenarios, sc)
	}

	parallel := res.Scenarios[ScenarioParallel]
	steep := res.Scenarios[ScenarioSteepener]
	flat := res.Scenarios[ScenarioFlattener]

	// Rates up across the board hurts a long bond; the partial shocks hurt
	// less than the full parallel move.
	require.Less(t, parallel.PnL, 0.0)
	assert.Less(t, steep.PnL, 0.0)
	assert.Less(t, flat.PnL, 0.0)
	assert.Greater(t, steep.PnL, parallel.PnL)
	assert.Greater(t, flat.PnL, parallel.PnL)

	// Complementary weights make the two tilts decompose the parallel shock
	// up to curve-fit noise.
	assert.InDelta(t, parallel.PnL, steep.PnL+flat.PnL, 0.35*math.Abs(parallel.PnL))

	// The parallel scenario's reported yields sit exactly 25bp above base.
	base := baseSnapshot(t)
	for tn, y := range parallel.ShockedYields {
		want, err := base.Yield(tn)
		require.NoError(t, err)
		assert.InDelta(t, want+0.0025, y, 1e-15, "tenor %s", tn)
	}
}

func TestStress_ZeroShockIsExactNoop(t *testing.T) {
	// Mutates the package config; not parallel.
	cfg := config.GetConfig()
	zero := cfg
	zero.StressShockBP = 0
	config.SetConfig(zero)
	defer config.SetConfig(cfg)

	res, err := Stress(context.Background(), testBond(t), baseSnapshot(t), testSettlement, StressOptions{})
	require.NoError(t, err)

	for sc, r := range res.Scenarios {
		assert.Zerof(t, r.PnL, "scenario %s", sc)
		assert.Equal(t, res.BasePV, r.PV, "scenario %s", sc)
	}
}

func TestStress_UnknownScenario(t *testing.T) {
	t.Parallel()

	_, err := Stress(context.Background(), testBond(t), baseSnapshot(t), testSettlement, StressOptions{
		Scenarios: []Scenario{"twist"},
	})
	assert.Error(t, err)
}
