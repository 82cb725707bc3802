package pricing_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"hotel_pricing/internal/pricing"
)

func day(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func money(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func section(t *testing.T, id int, start, end, onlyRoom string, beds ...pricing.BedPrice) pricing.PriceSection {
	t.Helper()
	return pricing.PriceSection{
		ID:            id,
		Start:         day(t, start),
		End:           day(t, end),
		OnlyRoomPrice: money(onlyRoom),
		BedPrices:     beds,
	}
}

func bed(id pricing.RoomTypeID, price string) pricing.BedPrice {
	return pricing.BedPrice{Type: id, Price: money(price)}
}

func window(t *testing.T, start, end string) pricing.AvailabilityWindow {
	t.Helper()
	return pricing.AvailabilityWindow{Start: day(t, start), End: day(t, end), IsActive: true}
}
