package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/meenmo/firisk/curve"
)

// OpenPostgres opens a Postgres connection for yield history loading.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenPostgres: %w", err)
	}
	return db, nil
}

// LoadPostgres reads a yield history from a long-format table with columns
// (obs_date date, tenor text, yield double precision), one row per
// date/tenor pair. Yields are standardized to decimal like the CSV loader.
func LoadPostgres(ctx context.Context, db *sql.DB, table string, opts LoadOptions) (History, error) {
	q := fmt.Sprintf(`SELECT obs_date, tenor, yield FROM %s ORDER BY obs_date`, table)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return History{}, fmt.Errorf("LoadPostgres: %w", err)
	}
	defer rows.Close()

	byDate := make(map[time.Time]map[string]float64)
	var dates []time.Time
	for rows.Next() {
		var (
			d  time.Time
			tn string
			y  float64
		)
		if err := rows.Scan(&d, &tn, &y); err != nil {
			return History{}, fmt.Errorf("LoadPostgres: %w", err)
		}
		norm, err := curve.NormalizeTenor(tn)
		if err != nil {
			return History{}, fmt.Errorf("LoadPostgres: %w", err)
		}
		d = d.UTC().Truncate(24 * time.Hour)
		if _, ok := byDate[d]; !ok {
			byDate[d] = make(map[string]float64)
			dates = append(dates, d)
		}
		byDate[d][norm] = standardizeYield(y)
	}
	if err := rows.Err(); err != nil {
		return History{}, fmt.Errorf("LoadPostgres: %w", err)
	}
	if len(dates) == 0 {
		return History{}, fmt.Errorf("LoadPostgres: no rows in %s", table)
	}

	required := opts.RequiredTenors
	if len(required) == 0 {
		for tn := range byDate[dates[0]] {
			required = append(required, tn)
		}
	}
	required, err = curve.SortTenors(required)
	if err != nil {
		return History{}, fmt.Errorf("LoadPostgres: %w", err)
	}

	missing := opts.Missing
	if missing == "" {
		missing = MissingForwardFill
	}

	snaps := make([]Snapshot, 0, len(dates))
	var prev map[string]float64
	for _, d := range dates {
		quotes := make(map[string]float64, len(required))
		dropRow := false
		for _, tn := range required {
			v, ok := byDate[d][tn]
			if !ok || math.IsNaN(v) {
				switch missing {
				case MissingForwardFill:
					if prev == nil {
						dropRow = true
					} else {
						v = prev[tn]
					}
				case MissingDrop:
					dropRow = true
				case MissingError:
					return History{}, fmt.Errorf("LoadPostgres: missing yield at %s/%s", d.Format("2006-01-02"), tn)
				default:
					return History{}, fmt.Errorf("LoadPostgres: unknown missing policy %q", missing)
				}
			}
			quotes[tn] = v
		}
		if dropRow {
			continue
		}
		prev = quotes

		s, err := NewSnapshot(d, quotes)
		if err != nil {
			return History{}, fmt.Errorf("LoadPostgres: %w", err)
		}
		snaps = append(snaps, s)
	}

	return NewHistory(snaps)
}
