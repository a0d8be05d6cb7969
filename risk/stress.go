package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/meenmo/firisk/config"
	"github.com/meenmo/firisk/marketdata"
)

// Scenario names a structured curve shock.
type Scenario string

const (
	// ScenarioParallel shifts every tenor by the full shock.
	ScenarioParallel Scenario = "parallel"
	// ScenarioSteepener shifts the long end more: weight w_i rises
	// linearly over the tenor list from 0 to 1.
	ScenarioSteepener Scenario = "steepener"
	// ScenarioFlattener is the steepener's complement: weight 1-w_i.
	ScenarioFlattener Scenario = "flattener"
)

// DefaultScenarios is the standard scenario set, in reporting order.
var DefaultScenarios = []Scenario{ScenarioParallel, ScenarioSteepener, ScenarioFlattener}

// StressOptions tunes a stress run. Zero values fall back to the active config.
type StressOptions struct {
	// ShockBP is the shock magnitude in basis points (default 25bp).
	ShockBP float64
	// Scenarios selects which shocks to run (default DefaultScenarios).
	Scenarios []Scenario
	// Workers bounds the revaluation pool.
	Workers int
}

// ScenarioResult is the outcome of one stressed revaluation.
type ScenarioResult struct {
	Name          Scenario
	ShockedYields map[string]float64
	PV            float64
	PnL           float64
}

// StressResult holds base PV and per-scenario P&L.
type StressResult struct {
	BasePV    float64
	ShockBP   float64
	Tenors    []string
	Scenarios map[Scenario]ScenarioResult
}

// Stress revalues the base snapshot under structured shocks. Scenarios are
// independent and run in parallel, each warm-started from the base fit.
func Stress(ctx context.Context, pricer Pricer, base marketdata.Snapshot, settlement time.Time, opts StressOptions) (StressResult, error) {
	cfg := config.GetConfig()
	shockBP := opts.ShockBP
	if shockBP == 0 {
		shockBP = cfg.StressShockBP
	}
	shock := shockBP * 1e-4

	scenarios := opts.Scenarios
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios
	}

	pipe, err := NewPipeline(pricer, base, settlement)
	if err != nil {
		return StressResult{}, fmt.Errorf("Stress: %w", err)
	}
	tenors := pipe.Tenors()

	shocked := make([]marketdata.Snapshot, len(scenarios))
	for i, sc := range scenarios {
		deltas, err := scenarioDeltas(sc, len(tenors), shock)
		if err != nil {
			return StressResult{}, fmt.Errorf("Stress: %w", err)
		}
		snap, err := base.Apply(deltas)
		if err != nil {
			return StressResult{}, fmt.Errorf("Stress: %w", err)
		}
		shocked[i] = snap
	}

	pvs, err := runIndexed(ctx, len(scenarios), opts.Workers, func(i int) (float64, error) {
		pv, _, err := pipe.Reval(shocked[i])
		return pv, err
	})
	if err != nil {
		return StressResult{}, fmt.Errorf("Stress: %w", err)
	}

	res := StressResult{
		BasePV:    pipe.BasePV(),
		ShockBP:   shockBP,
		Tenors:    tenors,
		Scenarios: make(map[Scenario]ScenarioResult, len(scenarios)),
	}
	for i, sc := range scenarios {
		res.Scenarios[sc] = ScenarioResult{
			Name:          sc,
			ShockedYields: shocked[i].Quotes(),
			PV:            pvs[i],
			PnL:           pvs[i] - res.BasePV,
		}
	}
	return res, nil
}

// ScenarioWeights returns the index-based linear weights used by the
// steepener: w_0 = 0 at the shortest tenor rising to w_{n-1} = 1 at the
// longest. The flattener uses the complement 1-w_i, so at every index
// steepener and flattener weights sum to 1.
func ScenarioWeights(n int) []float64 {
	w := make([]float64, n)
	if n <= 1 {
		for i := range w {
			w[i] = 1.0
		}
		return w
	}
	for i := range w {
		w[i] = float64(i) / float64(n-1)
	}
	return w
}

func scenarioDeltas(sc Scenario, n int, shock float64) ([]float64, error) {
	deltas := make([]float64, n)
	switch sc {
	case ScenarioParallel:
		for i := range deltas {
			deltas[i] = shock
		}
	case ScenarioSteepener:
		for i, w := range ScenarioWeights(n) {
			deltas[i] = w * shock
		}
	case ScenarioFlattener:
		for i, w := range ScenarioWeights(n) {
			deltas[i] = (1.0 - w) * shock
		}
	default:
		return nil, fmt.Errorf("unknown scenario %q", sc)
	}
	return deltas, nil
}
