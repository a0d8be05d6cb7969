package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/firisk/config"
	"github.com/meenmo/firisk/marketdata"
)

// ErrInsufficientData marks a lookback window too short for quantile or
// covariance estimation. It is distinct from input-validation failures so
// callers can tell "bad snapshot" from "not enough history".
var ErrInsufficientData = errors.New("insufficient history")

// VaROptions tunes a historical VaR run. Zero values fall back to the
// active config.
type VaROptions struct {
	// Lookback is the number of historical observations to replay
	// (default 252).
	Lookback int
	// ConfidenceLevels are the levels to report (default 0.95, 0.99).
	ConfidenceLevels []float64
	// Workers bounds the revaluation pool.
	Workers int
}

// VaRResult is a quantile-based loss estimate plus the full P&L
// distribution it was derived from. PnL preserves scenario order, so entry i
// can be traced back to the i-th replayed day (or simulated draw).
type VaRResult struct {
	BasePV   float64
	Lookback int
	PnL      []float64
	// VaR maps confidence level to a non-negative loss magnitude:
	// VaR_c = max(0, -Q_{1-c}(PnL)), linear interpolation between order
	// statistics.
	VaR map[float64]float64
	// NonConverged counts revaluations whose curve fit did not converge.
	NonConverged int
}

// HistoricalVaR replays historical day-over-day tenor changes against the
// base snapshot (the most recent observation) with full revaluation per day.
func HistoricalVaR(ctx context.Context, pricer Pricer, hist marketdata.History, settlement time.Time, opts VaROptions) (VaRResult, error) {
	cfg := config.GetConfig()
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = cfg.VaRLookback
	}
	levels := opts.ConfidenceLevels
	if len(levels) == 0 {
		levels = cfg.ConfidenceLevels
	}

	window := hist.Window(lookback)
	if window.Len() < 2 {
		return VaRResult{}, fmt.Errorf("HistoricalVaR: %w: %d observations in window", ErrInsufficientData, window.Len())
	}

	base, err := window.Latest()
	if err != nil {
		return VaRResult{}, fmt.Errorf("HistoricalVaR: %w", err)
	}
	pipe, err := NewPipeline(pricer, base, settlement)
	if err != nil {
		return VaRResult{}, fmt.Errorf("HistoricalVaR: %w", err)
	}

	diffs := window.Diffs()
	shocked := make([]marketdata.Snapshot, len(diffs))
	for i, d := range diffs {
		snap, err := base.Apply(d)
		if err != nil {
			return VaRResult{}, fmt.Errorf("HistoricalVaR: %w", err)
		}
		shocked[i] = snap
	}

	var nonConverged atomicCounter
	pvs, err := runIndexed(ctx, len(shocked), opts.Workers, func(i int) (float64, error) {
		pv, diag, err := pipe.Reval(shocked[i])
		if err != nil {
			return 0, err
		}
		if !diag.Converged {
			nonConverged.inc()
		}
		return pv, nil
	})
	if err != nil {
		return VaRResult{}, fmt.Errorf("HistoricalVaR: %w", err)
	}

	pnl := make([]float64, len(pvs))
	for i, pv := range pvs {
		pnl[i] = pv - pipe.BasePV()
	}

	return VaRResult{
		BasePV:       pipe.BasePV(),
		Lookback:     len(pnl),
		PnL:          pnl,
		VaR:          varFromPnL(pnl, levels),
		NonConverged: nonConverged.value(),
	}, nil
}
