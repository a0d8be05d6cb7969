package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/meenmo/firisk/config"
	"github.com/meenmo/firisk/marketdata"
)

// KeyRateOptions tunes a key-rate DV01 run. Zero values fall back to the
// active config.
type KeyRateOptions struct {
	// BumpBP is the per-tenor bump in basis points (default +1bp).
	BumpBP float64
	// Workers bounds the revaluation pool.
	Workers int
}

// KeyRateResult maps each tenor to the PV change from bumping it alone.
//
// DV01 values are typically negative for a long bond position: the sign
// falls out of the bump-and-reprice arithmetic, it is not enforced.
type KeyRateResult struct {
	BasePV   float64
	BumpBP   float64
	Tenors   []string
	BumpedPV map[string]float64
	DV01     map[string]float64
}

// KeyRate computes key-rate DV01 by full revaluation: for each tenor it
// bumps that tenor's yield alone, refits the curve and reprices.
//
// Tenor bumps are independent, so they run in parallel; each one
// warm-starts from the shared base fit.
func KeyRate(ctx context.Context, pricer Pricer, base marketdata.Snapshot, settlement time.Time, opts KeyRateOptions) (KeyRateResult, error) {
	cfg := config.GetConfig()
	bumpBP := opts.BumpBP
	if bumpBP == 0 {
		bumpBP = cfg.KeyRateBumpBP
	}
	bump := bumpBP * 1e-4

	pipe, err := NewPipeline(pricer, base, settlement)
	if err != nil {
		return KeyRateResult{}, fmt.Errorf("KeyRate: %w", err)
	}

	tenors := pipe.Tenors()
	pvs, err := runIndexed(ctx, len(tenors), opts.Workers, func(i int) (float64, error) {
		bumped, err := base.Bump(tenors[i], bump)
		if err != nil {
			return 0, err
		}
		pv, _, err := pipe.Reval(bumped)
		return pv, err
	})
	if err != nil {
		return KeyRateResult{}, fmt.Errorf("KeyRate: %w", err)
	}

	res := KeyRateResult{
		BasePV:   pipe.BasePV(),
		BumpBP:   bumpBP,
		Tenors:   tenors,
		BumpedPV: make(map[string]float64, len(tenors)),
		DV01:     make(map[string]float64, len(tenors)),
	}
	for i, tn := range tenors {
		res.BumpedPV[tn] = pvs[i]
		res.DV01[tn] = pvs[i] - res.BasePV
	}
	return res, nil
}
