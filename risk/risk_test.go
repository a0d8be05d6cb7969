package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/firisk/bond"
	"github.com/meenmo/firisk/marketdata"
)

var testSettlement = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

var baseQuotes = map[string]float64{
	"3M": 0.0420, "6M": 0.0424, "1Y": 0.0429, "2Y": 0.0434,
	"3Y": 0.0439, "5Y": 0.0444, "7Y": 0.0449, "10Y": 0.0454,
}

// testBond is a plain 5y semiannual bullet, long 100 notional.
func testBond(t *testing.T) bond.FixedCouponBond {
	t.Helper()
	b, err := bond.NewFixedCouponBond(testSettlement.AddDate(5, 0, 0), 0.045, 100, 2)
	require.NoError(t, err)
	return b
}

func baseSnapshot(t *testing.T) marketdata.Snapshot {
	t.Helper()
	s, err := marketdata.NewSnapshot(testSettlement, baseQuotes)
	require.NoError(t, err)
	return s
}

// testHistory builds days observations ending at testSettlement, with small
// deterministic per-tenor wiggles so day-over-day diffs are non-degenerate.
func testHistory(t *testing.T, days int) marketdata.History {
	t.Helper()
	tenors := []string{"3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y"}
	snaps := make([]marketdata.Snapshot, 0, days)
	for d := 0; d < days; d++ {
		quotes := make(map[string]float64, len(tenors))
		for i, tn := range tenors {
			quotes[tn] = baseQuotes[tn] +
				0.0004*math.Sin(0.7*float64(d)+float64(i)) +
				0.00005*float64(d-days+1)
		}
		s, err := marketdata.NewSnapshot(testSettlement.AddDate(0, 0, d-days+1), quotes)
		require.NoError(t, err)
		snaps = append(snaps, s)
	}
	h, err := marketdata.NewHistory(snaps)
	require.NoError(t, err)
	return h
}
