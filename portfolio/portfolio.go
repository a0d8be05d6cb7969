package portfolio

import (
	"time"

	"github.com/meenmo/firisk/curve"
)

// Instrument is anything priceable off a calibrated curve.
// bond.FixedCouponBond satisfies it, as does Portfolio itself.
type Instrument interface {
	Price(c curve.Curve, settlement time.Time) float64
}

// Position is a quantity of a single instrument.
type Position struct {
	Instrument Instrument
	Quantity   float64
}

// Portfolio is a quantity-weighted instrument container. Because it
// implements Instrument, every risk engine runs at portfolio level unchanged.
type Portfolio struct {
	positions []Position
}

// New builds a portfolio from positions.
func New(positions ...Position) *Portfolio {
	p := &Portfolio{}
	p.positions = append(p.positions, positions...)
	return p
}

// Add appends a position.
func (p *Portfolio) Add(instrument Instrument, quantity float64) {
	p.positions = append(p.positions, Position{Instrument: instrument, Quantity: quantity})
}

// Len returns the number of positions.
func (p *Portfolio) Len() int {
	return len(p.positions)
}

// Price sums quantity-weighted instrument values.
func (p *Portfolio) Price(c curve.Curve, settlement time.Time) float64 {
	var total float64
	for _, pos := range p.positions {
		total += pos.Quantity * pos.Instrument.Price(c, settlement)
	}
	return total
}
