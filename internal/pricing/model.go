// Package pricing normalizes, edits and validates a hotel's date-ranged rate cards.
//
// A hotel record arrives as flat price rows (one per date range and room type).
// Unflatten groups them into PriceSections, the builder functions edit those
// sections, Validate checks that they partition the availability window, and
// Flatten turns them back into rows for storage. Nothing in this package does I/O.
package pricing

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AvailabilityWindow is the period a hotel is bookable. A zero date means the
// field was not provided.
type AvailabilityWindow struct {
	Start    civil.Date `json:"start_date"`
	End      civil.Date `json:"end_date"`
	IsActive bool       `json:"is_active"`
}

// PriceSection is the rate card for one contiguous date range.
type PriceSection struct {
	ID            int              `json:"id"`
	Start         civil.Date       `json:"start_date"`
	End           civil.Date       `json:"end_date"`
	OnlyRoomPrice *decimal.Decimal `json:"only_room_price"`
	BedPrices     []BedPrice       `json:"bed_prices"`
}

type BedPrice struct {
	Type  RoomTypeID       `json:"type"`
	Price *decimal.Decimal `json:"price"`
}

// HasBedType reports whether the section already prices t.
func (s PriceSection) HasBedType(t RoomTypeID) bool {
	for _, bp := range s.BedPrices {
		if bp.Type == t {
			return true
		}
	}
	return false
}

func (s PriceSection) clone() PriceSection {
	out := s
	if s.BedPrices != nil {
		out.BedPrices = make([]BedPrice, len(s.BedPrices))
		copy(out.BedPrices, s.BedPrices)
	}
	return out
}

func cloneSections(in []PriceSection) []PriceSection {
	if in == nil {
		return nil
	}
	out := make([]PriceSection, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}

// Money returns a pointer to v, for filling optional prices.
func Money(v decimal.Decimal) *decimal.Decimal { return &v }
