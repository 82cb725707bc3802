package httpserver

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hotel_pricing/internal/app"
	"hotel_pricing/internal/pricing"
)

// JSON shapes of an edit session. Dates are YYYY-MM-DD strings and prices plain
// numbers; an empty string or null means the field has not been filled in yet.

type windowDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

type bedPriceDTO struct {
	Type  string   `json:"type"`
	Price *float64 `json:"price"`
}

type sectionDTO struct {
	ID            int           `json:"id"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	OnlyRoomPrice *float64      `json:"only_room_price"`
	BedPrices     []bedPriceDTO `json:"bed_prices"`
}

type sessionDTO struct {
	HotelID      int64               `json:"hotel_id,omitempty"`
	Availability windowDTO           `json:"availability"`
	Sections     []sectionDTO        `json:"sections"`
	Diagnostics  pricing.Diagnostics `json:"diagnostics,omitempty"`
}

func fromSession(s app.Session) sessionDTO {
	out := sessionDTO{
		HotelID: s.HotelID,
		Availability: windowDTO{
			StartDate: pricing.FormatDate(s.Window.Start),
			EndDate:   pricing.FormatDate(s.Window.End),
			IsActive:  s.Window.IsActive,
		},
		Sections:    make([]sectionDTO, 0, len(s.Sections)),
		Diagnostics: s.Diagnostics,
	}
	for _, sec := range s.Sections {
		d := sectionDTO{
			ID:            sec.ID,
			StartDate:     pricing.FormatDate(sec.Start),
			EndDate:       pricing.FormatDate(sec.End),
			OnlyRoomPrice: toFloatPtr(sec.OnlyRoomPrice),
			BedPrices:     make([]bedPriceDTO, 0, len(sec.BedPrices)),
		}
		for _, bp := range sec.BedPrices {
			d.BedPrices = append(d.BedPrices, bedPriceDTO{Type: string(bp.Type), Price: toFloatPtr(bp.Price)})
		}
		out.Sections = append(out.Sections, d)
	}
	return out
}

// toModel converts a request body. Malformed dates and unknown room types are
// rejected here; missing values are left for pricing.Validate to report.
func (in sessionDTO) toModel() (pricing.AvailabilityWindow, []pricing.PriceSection, error) {
	var w pricing.AvailabilityWindow
	var err error
	w.IsActive = in.Availability.IsActive
	if w.Start, err = pricing.ParseDate(in.Availability.StartDate); err != nil {
		return w, nil, fmt.Errorf("availability.start_date: %w", err)
	}
	if w.End, err = pricing.ParseDate(in.Availability.EndDate); err != nil {
		return w, nil, fmt.Errorf("availability.end_date: %w", err)
	}

	sections := make([]pricing.PriceSection, 0, len(in.Sections))
	for _, sd := range in.Sections {
		sec := pricing.PriceSection{ID: sd.ID, OnlyRoomPrice: toDecimalPtr(sd.OnlyRoomPrice)}
		if sec.Start, err = pricing.ParseDate(sd.StartDate); err != nil {
			return w, nil, fmt.Errorf("sections[%d].start_date: %w", sd.ID, err)
		}
		if sec.End, err = pricing.ParseDate(sd.EndDate); err != nil {
			return w, nil, fmt.Errorf("sections[%d].end_date: %w", sd.ID, err)
		}
		for _, bd := range sd.BedPrices {
			var t pricing.RoomTypeID
			if bd.Type != "" {
				id, ok := pricing.NormalizeLabel(bd.Type)
				if !ok || id == pricing.OnlyRoom {
					return w, nil, fmt.Errorf("sections[%d].bed_prices: unknown room type %q", sd.ID, bd.Type)
				}
				t = id
			}
			sec.BedPrices = append(sec.BedPrices, pricing.BedPrice{Type: t, Price: toDecimalPtr(bd.Price)})
		}
		sections = append(sections, sec)
	}
	return w, sections, nil
}

func toDecimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	return pricing.Money(decimal.NewFromFloat(*f))
}

func toFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
