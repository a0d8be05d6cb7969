package marketdata

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/firisk/curve"
)

// ErrMissingTenor is returned when a required tenor is absent from a quote set.
var ErrMissingTenor = errors.New("missing tenor")

// Snapshot is one date's observed yield curve: an ordered set of tenor labels
// with decimal yields (0.045, not 4.5).
//
// A Snapshot is immutable once constructed. Bump and Apply return new values;
// the receiver is never modified, so a base snapshot can be read concurrently
// by any number of revaluation workers.
type Snapshot struct {
	date       time.Time
	tenors     []string
	maturities []float64
	yields     []float64
}

// NewSnapshot validates and builds a snapshot from a tenor->yield quote map.
//
// Validation is strict: every tenor must parse, maturities must be strictly
// increasing after sorting, and every yield must be finite. Malformed input
// fails fast here and is never coerced downstream.
func NewSnapshot(date time.Time, quotes map[string]float64) (Snapshot, error) {
	if len(quotes) == 0 {
		return Snapshot{}, fmt.Errorf("NewSnapshot: empty quote set")
	}

	labels := make([]string, 0, len(quotes))
	for t := range quotes {
		labels = append(labels, t)
	}
	sorted, err := curve.SortTenors(labels)
	if err != nil {
		return Snapshot{}, fmt.Errorf("NewSnapshot: %w", err)
	}

	s := Snapshot{
		date:       date,
		tenors:     sorted,
		maturities: make([]float64, len(sorted)),
		yields:     make([]float64, len(sorted)),
	}
	prev := 0.0
	for i, tn := range sorted {
		years, err := curve.TenorYears(tn)
		if err != nil {
			return Snapshot{}, fmt.Errorf("NewSnapshot: %w", err)
		}
		if years <= prev && i > 0 {
			return Snapshot{}, fmt.Errorf("NewSnapshot: duplicate tenor maturity at %s", tn)
		}
		prev = years

		y, ok := lookupQuote(quotes, tn)
		if !ok {
			return Snapshot{}, fmt.Errorf("NewSnapshot: %w: %s", ErrMissingTenor, tn)
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return Snapshot{}, fmt.Errorf("NewSnapshot: non-finite yield at tenor %s", tn)
		}
		s.maturities[i] = years
		s.yields[i] = y
	}
	return s, nil
}

// lookupQuote finds a quote under its normalized or original spelling.
func lookupQuote(quotes map[string]float64, normalized string) (float64, bool) {
	if y, ok := quotes[normalized]; ok {
		return y, true
	}
	for k, y := range quotes {
		if n, err := curve.NormalizeTenor(k); err == nil && n == normalized {
			return y, true
		}
	}
	return 0, false
}

// newSnapshotFromSorted builds a snapshot from already validated slices,
// taking ownership of the yield slice.
func newSnapshotFromSorted(date time.Time, tenors []string, maturities, yields []float64) Snapshot {
	return Snapshot{date: date, tenors: tenors, maturities: maturities, yields: yields}
}

// Date returns the observation date.
func (s Snapshot) Date() time.Time {
	return s.date
}

// Len returns the number of tenors.
func (s Snapshot) Len() int {
	return len(s.tenors)
}

// Tenors returns the tenor labels in ascending maturity order.
func (s Snapshot) Tenors() []string {
	out := make([]string, len(s.tenors))
	copy(out, s.tenors)
	return out
}

// Maturities returns the tenor maturities in years, ascending.
func (s Snapshot) Maturities() []float64 {
	out := make([]float64, len(s.maturities))
	copy(out, s.maturities)
	return out
}

// Yields returns the decimal yields aligned with Tenors.
func (s Snapshot) Yields() []float64 {
	out := make([]float64, len(s.yields))
	copy(out, s.yields)
	return out
}

// Yield returns the yield at a tenor label.
func (s Snapshot) Yield(tenor string) (float64, error) {
	norm, err := curve.NormalizeTenor(tenor)
	if err != nil {
		return 0, fmt.Errorf("Yield: %w", err)
	}
	for i, tn := range s.tenors {
		if tn == norm {
			return s.yields[i], nil
		}
	}
	return 0, fmt.Errorf("Yield: %w: %s", ErrMissingTenor, norm)
}

// Quotes returns the snapshot as a tenor->yield map.
func (s Snapshot) Quotes() map[string]float64 {
	out := make(map[string]float64, len(s.tenors))
	for i, tn := range s.tenors {
		out[tn] = s.yields[i]
	}
	return out
}

// Bump returns a new snapshot with delta added to a single tenor's yield.
func (s Snapshot) Bump(tenor string, delta float64) (Snapshot, error) {
	norm, err := curve.NormalizeTenor(tenor)
	if err != nil {
		return Snapshot{}, fmt.Errorf("Bump: %w", err)
	}
	idx := -1
	for i, tn := range s.tenors {
		if tn == norm {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("Bump: %w: %s", ErrMissingTenor, norm)
	}

	yields := make([]float64, len(s.yields))
	copy(yields, s.yields)
	yields[idx] += delta
	return newSnapshotFromSorted(s.date, s.tenors, s.maturities, yields), nil
}

// Apply returns a new snapshot with the per-tenor deltas added in tenor order.
func (s Snapshot) Apply(deltas []float64) (Snapshot, error) {
	if len(deltas) != len(s.yields) {
		return Snapshot{}, fmt.Errorf("Apply: %d deltas for %d tenors", len(deltas), len(s.yields))
	}
	yields := make([]float64, len(s.yields))
	for i, d := range deltas {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return Snapshot{}, fmt.Errorf("Apply: non-finite delta at index %d", i)
		}
		yields[i] = s.yields[i] + d
	}
	return newSnapshotFromSorted(s.date, s.tenors, s.maturities, yields), nil
}
