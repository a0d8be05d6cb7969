package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/firisk/curve"
	"github.com/meenmo/firisk/utils"
)

// MissingPolicy controls how gaps in a yield history table are handled.
type MissingPolicy string

const (
	// MissingForwardFill carries the previous day's yield forward.
	MissingForwardFill MissingPolicy = "ffill"
	// MissingDrop removes rows with any missing value.
	MissingDrop MissingPolicy = "drop"
	// MissingError rejects the table if any value is missing.
	MissingError MissingPolicy = "error"
)

// LoadOptions configures CSV/DB yield history loading.
type LoadOptions struct {
	// RequiredTenors restricts and orders the tenor columns. Empty means
	// every non-date column in the source.
	RequiredTenors []string

	// Missing selects the gap policy. Defaults to MissingForwardFill.
	Missing MissingPolicy
}

// LoadCSV reads a yield history table from a CSV file with a "date" column
// and one column per tenor.
//
// Yields are standardized to decimal form per cell: a value above 1.0 is
// treated as a percent quote (4.50 -> 0.0450). Duplicate dates keep the last
// occurrence; rows are sorted by date.
func LoadCSV(path string, opts LoadOptions) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return History{}, fmt.Errorf("LoadCSV: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, opts LoadOptions) (History, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return History{}, fmt.Errorf("ReadCSV: %w", err)
	}
	if len(records) < 2 {
		return History{}, fmt.Errorf("ReadCSV: need a header row and at least one data row")
	}

	header := records[0]
	dateCol := -1
	tenorCols := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if strings.EqualFold(name, "date") {
			dateCol = i
			continue
		}
		if strings.HasPrefix(name, "Unnamed") || name == "" {
			continue
		}
		norm, err := curve.NormalizeTenor(name)
		if err != nil {
			return History{}, fmt.Errorf("ReadCSV: column %q: %w", name, err)
		}
		tenorCols[norm] = i
	}
	if dateCol < 0 {
		return History{}, fmt.Errorf("ReadCSV: no date column")
	}

	tenors := opts.RequiredTenors
	if len(tenors) == 0 {
		for tn := range tenorCols {
			tenors = append(tenors, tn)
		}
	}
	tenors, err = curve.SortTenors(tenors)
	if err != nil {
		return History{}, fmt.Errorf("ReadCSV: %w", err)
	}
	for _, tn := range tenors {
		if _, ok := tenorCols[tn]; !ok {
			return History{}, fmt.Errorf("ReadCSV: %w: %s", ErrMissingTenor, tn)
		}
	}

	type row struct {
		date   time.Time
		yields []float64 // NaN marks missing
	}
	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		d, err := utils.ParseDate(strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return History{}, fmt.Errorf("ReadCSV: %w", err)
		}
		ys := make([]float64, len(tenors))
		for j, tn := range tenors {
			cell := strings.TrimSpace(rec[tenorCols[tn]])
			if cell == "" {
				ys[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return History{}, fmt.Errorf("ReadCSV: bad yield %q at %s/%s", cell, utils.FormatDate(d), tn)
			}
			ys[j] = standardizeYield(v)
		}
		rows = append(rows, row{date: d, yields: ys})
	}

	// Sort by date, keep the last occurrence of duplicate dates.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	dedup := rows[:0]
	for i, r := range rows {
		if i+1 < len(rows) && rows[i+1].date.Equal(r.date) {
			continue
		}
		dedup = append(dedup, r)
	}
	rows = dedup

	missing := opts.Missing
	if missing == "" {
		missing = MissingForwardFill
	}

	snaps := make([]Snapshot, 0, len(rows))
	var prev []float64
	for _, r := range rows {
		filled := make([]float64, len(r.yields))
		copy(filled, r.yields)
		dropRow := false
		for j, v := range filled {
			if !math.IsNaN(v) {
				continue
			}
			switch missing {
			case MissingForwardFill:
				if prev == nil {
					dropRow = true
				} else {
					filled[j] = prev[j]
				}
			case MissingDrop:
				dropRow = true
			case MissingError:
				return History{}, fmt.Errorf("ReadCSV: missing yield at %s/%s", utils.FormatDate(r.date), tenors[j])
			default:
				return History{}, fmt.Errorf("ReadCSV: unknown missing policy %q", missing)
			}
		}
		if dropRow {
			continue
		}
		prev = filled

		quotes := make(map[string]float64, len(tenors))
		for j, tn := range tenors {
			quotes[tn] = filled[j]
		}
		s, err := NewSnapshot(r.date, quotes)
		if err != nil {
			return History{}, fmt.Errorf("ReadCSV: %w", err)
		}
		snaps = append(snaps, s)
	}

	return NewHistory(snaps)
}

// standardizeYield converts percent quotes to decimal. Any sane decimal yield
// is below 1.0; values above are read as percent.
func standardizeYield(v float64) float64 {
	if math.Abs(v) > 1.0 {
		return v / 100.0
	}
	return v
}
