package marketdata

import (
	"math"
	"strings"
	"testing"
)

const historyCSV = `date,3M,6M,1Y,2Y,3Y,5Y,7Y,10Y
2025-06-04,4.22,4.26,4.31,4.36,4.41,4.46,4.51,4.56
2025-06-02,4.20,4.24,4.29,4.34,4.39,4.44,4.49,4.54
2025-06-03,4.21,4.25,4.30,4.35,4.40,4.45,4.50,4.55
2025-06-03,9.99,9.99,9.99,9.99,9.99,9.99,9.99,9.99
`

func TestReadCSV_SortsDedupesAndStandardizes(t *testing.T) {
	t.Parallel()

	// Percent quotes, shuffled rows, one duplicate date. The loader sorts,
	// keeps the last duplicate, and converts to decimal.
	h, err := ReadCSV(strings.NewReader(historyCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("history length = %d, want 3", h.Len())
	}

	first := h.At(0)
	if got := first.Date().Format("2006-01-02"); got != "2025-06-02" {
		t.Fatalf("first date = %s, want 2025-06-02", got)
	}
	y, err := first.Yield("3M")
	if err != nil {
		t.Fatalf("Yield error: %v", err)
	}
	if math.Abs(y-0.0420) > 1e-12 {
		t.Fatalf("3M yield = %v, want 0.0420", y)
	}

	// Duplicate 2025-06-03 keeps the later row.
	dup := h.At(1)
	y, _ = dup.Yield("3M")
	if math.Abs(y-0.0999) > 1e-12 {
		t.Fatalf("duplicate date kept first row: 3M = %v, want 0.0999", y)
	}
}

func TestReadCSV_MissingPolicies(t *testing.T) {
	t.Parallel()

	gappy := `date,3M,6M,1Y,2Y,3Y,5Y,7Y,10Y
2025-06-02,4.20,4.24,4.29,4.34,4.39,4.44,4.49,4.54
2025-06-03,4.21,,4.30,4.35,4.40,4.45,4.50,4.55
`

	h, err := ReadCSV(strings.NewReader(gappy), LoadOptions{Missing: MissingForwardFill})
	if err != nil {
		t.Fatalf("ffill error: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("ffill length = %d, want 2", h.Len())
	}
	y, _ := h.At(1).Yield("6M")
	if math.Abs(y-0.0424) > 1e-12 {
		t.Fatalf("forward-filled 6M = %v, want 0.0424", y)
	}

	h, err = ReadCSV(strings.NewReader(gappy), LoadOptions{Missing: MissingDrop})
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("drop length = %d, want 1", h.Len())
	}

	if _, err := ReadCSV(strings.NewReader(gappy), LoadOptions{Missing: MissingError}); err == nil {
		t.Fatalf("expected error under MissingError policy")
	}
}

func TestReadCSV_RequiredTenors(t *testing.T) {
	t.Parallel()

	h, err := ReadCSV(strings.NewReader(historyCSV), LoadOptions{RequiredTenors: []string{"1y", "5Y", "10Y"}})
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	got := h.Tenors()
	want := []string{"1Y", "5Y", "10Y"}
	if len(got) != len(want) {
		t.Fatalf("tenors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tenors = %v, want %v", got, want)
		}
	}

	if _, err := ReadCSV(strings.NewReader(historyCSV), LoadOptions{RequiredTenors: []string{"4Y"}}); err == nil {
		t.Fatalf("expected error for absent required tenor")
	}
}

func TestStandardizeYield(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want float64 }{
		{4.5, 0.045},
		{0.045, 0.045},
		{-1.25, -0.0125},
		{0.0, 0.0},
	}
	for _, c := range cases {
		if got := standardizeYield(c.in); math.Abs(got-c.want) > 1e-15 {
			t.Fatalf("standardizeYield(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
