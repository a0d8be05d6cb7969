package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/firisk/utils"
)

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in currency units per unit notional basis chosen by the caller
// (e.g., per-100 for price-style quoting).
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// CouponSchedule builds the coupon dates for a bullet bond by stepping back
// from maturity in equal month jumps, keeping only dates strictly after
// settlement. The returned list is ascending and ends at maturity.
func CouponSchedule(settlement, maturity time.Time, frequency int) ([]time.Time, error) {
	if !maturity.After(settlement) {
		return nil, fmt.Errorf("CouponSchedule: maturity %s not after settlement %s",
			utils.FormatDate(maturity), utils.FormatDate(settlement))
	}
	months, err := monthsPerPeriod(frequency)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for d := maturity; d.After(settlement); d = utils.AddMonth(d, -months) {
		dates = append(dates, d)
	}
	utils.SortDates(dates)
	return dates, nil
}

func monthsPerPeriod(frequency int) (int, error) {
	if frequency <= 0 {
		return 0, fmt.Errorf("CouponSchedule: frequency must be positive, got %d", frequency)
	}
	if 12%frequency != 0 {
		return 0, fmt.Errorf("CouponSchedule: frequency must divide 12 cleanly, got %d", frequency)
	}
	return 12 / frequency, nil
}
