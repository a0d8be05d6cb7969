package curve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeTenor canonicalizes a tenor label: "3m" -> "3M", " 10Y " -> "10Y".
func NormalizeTenor(tenor string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(tenor))
	if len(t) < 2 {
		return "", fmt.Errorf("NormalizeTenor: invalid tenor %q", tenor)
	}
	unit := t[len(t)-1:]
	if unit != "M" && unit != "Y" {
		return "", fmt.Errorf("NormalizeTenor: invalid tenor %q (expected like '3M', '10Y')", tenor)
	}
	n, err := strconv.Atoi(t[:len(t)-1])
	if err != nil || n <= 0 {
		return "", fmt.Errorf("NormalizeTenor: invalid tenor %q (expected like '3M', '10Y')", tenor)
	}
	return fmt.Sprintf("%d%s", n, unit), nil
}

// TenorYears converts tenor labels like "3M" or "10Y" into year fractions.
func TenorYears(tenor string) (float64, error) {
	t, err := NormalizeTenor(tenor)
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(t[:len(t)-1])
	if strings.HasSuffix(t, "M") {
		return float64(n) / 12.0, nil
	}
	return float64(n), nil
}

// SortTenors returns the normalized tenor labels sorted by ascending maturity.
func SortTenors(tenors []string) ([]string, error) {
	type entry struct {
		label string
		years float64
	}
	entries := make([]entry, 0, len(tenors))
	for _, t := range tenors {
		y, err := TenorYears(t)
		if err != nil {
			return nil, err
		}
		norm, _ := NormalizeTenor(t)
		entries = append(entries, entry{label: norm, years: y})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].years < entries[j].years })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.label
	}
	return out, nil
}
