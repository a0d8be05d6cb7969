package marketdata

import (
	"fmt"
)

// History is a time-ordered sequence of yield snapshots sharing one tenor set.
type History struct {
	snaps []Snapshot
}

// NewHistory validates ordering and tenor consistency across snapshots.
func NewHistory(snaps []Snapshot) (History, error) {
	if len(snaps) == 0 {
		return History{}, fmt.Errorf("NewHistory: no snapshots")
	}
	ref := snaps[0].tenors
	for i, s := range snaps {
		if i > 0 && !s.date.After(snaps[i-1].date) {
			return History{}, fmt.Errorf("NewHistory: snapshots out of order at index %d (%s)", i, s.date.Format("2006-01-02"))
		}
		if len(s.tenors) != len(ref) {
			return History{}, fmt.Errorf("NewHistory: snapshot %d has %d tenors, expected %d", i, len(s.tenors), len(ref))
		}
		for j, tn := range s.tenors {
			if tn != ref[j] {
				return History{}, fmt.Errorf("NewHistory: snapshot %d tenor mismatch: %s vs %s", i, tn, ref[j])
			}
		}
	}
	out := make([]Snapshot, len(snaps))
	copy(out, snaps)
	return History{snaps: out}, nil
}

// Len returns the number of observations.
func (h History) Len() int {
	return len(h.snaps)
}

// At returns the i-th snapshot in time order.
func (h History) At(i int) Snapshot {
	return h.snaps[i]
}

// Latest returns the most recent snapshot.
func (h History) Latest() (Snapshot, error) {
	if len(h.snaps) == 0 {
		return Snapshot{}, fmt.Errorf("Latest: empty history")
	}
	return h.snaps[len(h.snaps)-1], nil
}

// Tenors returns the shared tenor labels in ascending maturity order.
func (h History) Tenors() []string {
	if len(h.snaps) == 0 {
		return nil
	}
	return h.snaps[0].Tenors()
}

// Window returns the trailing lookback+1 observations (enough for lookback
// day-over-day differences). A non-positive lookback returns the full history.
func (h History) Window(lookback int) History {
	if lookback <= 0 || len(h.snaps) <= lookback+1 {
		return h
	}
	return History{snaps: h.snaps[len(h.snaps)-lookback-1:]}
}

// Diffs returns the day-over-day per-tenor yield changes, one row per
// consecutive snapshot pair, columns aligned with Tenors.
func (h History) Diffs() [][]float64 {
	if len(h.snaps) < 2 {
		return nil
	}
	out := make([][]float64, len(h.snaps)-1)
	for i := 1; i < len(h.snaps); i++ {
		prev := h.snaps[i-1].yields
		cur := h.snaps[i].yields
		row := make([]float64, len(cur))
		for j := range cur {
			row[j] = cur[j] - prev[j]
		}
		out[i-1] = row
	}
	return out
}
