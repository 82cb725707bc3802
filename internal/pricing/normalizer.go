package pricing

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"hotel_pricing/internal/domain"
)

type rangeKey struct{ start, end string }

// Unflatten groups flat price rows into sections. Rows belong to the same
// section only when their start and end date strings are identical; overlapping
// ranges are not merged. Section ids follow first appearance, starting at 0.
//
// Rows whose room type cannot be resolved are left out of the model and
// reported as UnrecognizedRoomType diagnostics.
func Unflatten(records []domain.FlatPriceRecord) ([]PriceSection, Diagnostics) {
	var (
		sections []PriceSection
		diags    Diagnostics
		byKey    = map[rangeKey]int{}
	)

	for i, rec := range records {
		id, ok := NormalizeLabel(rec.RoomType)
		if !ok {
			diags = append(diags, Diagnostic{
				Category: UnrecognizedRoomType,
				Index:    i,
				RoomType: rec.RoomType,
				Message:  fmt.Sprintf("room type %q does not match any known type", rec.RoomType),
			})
			continue
		}

		key := rangeKey{rec.StartDate, rec.EndDate}
		pos, seen := byKey[key]
		if !seen {
			s := PriceSection{ID: len(sections)}
			s.Start = parseDate(rec.StartDate, i, "start_date", &diags)
			s.End = parseDate(rec.EndDate, i, "end_date", &diags)
			sections = append(sections, s)
			pos = len(sections) - 1
			byKey[key] = pos
		}
		sec := &sections[pos]

		price := decimal.NewFromFloat(rec.Price)
		if id == OnlyRoom {
			if sec.OnlyRoomPrice != nil {
				diags = append(diags, duplicateDiag(i, rec.RoomType))
			}
			sec.OnlyRoomPrice = &price
			continue
		}
		if j := bedIndex(*sec, id); j >= 0 {
			diags = append(diags, duplicateDiag(i, rec.RoomType))
			sec.BedPrices[j].Price = &price
			continue
		}
		sec.BedPrices = append(sec.BedPrices, BedPrice{Type: id, Price: &price})
	}
	return sections, diags
}

// Flatten emits, per section, the Only-Room row followed by one row per bed price.
func Flatten(sections []PriceSection) []domain.FlatPriceRecord {
	out := make([]domain.FlatPriceRecord, 0, len(sections)*2)
	for _, s := range sections {
		start, end := FormatDate(s.Start), FormatDate(s.End)
		out = append(out, domain.FlatPriceRecord{
			StartDate:        start,
			EndDate:          end,
			RoomType:         onlyRoomLabel,
			Price:            toFloat(s.OnlyRoomPrice),
			IsSharingAllowed: s.HasBedType(Sharing),
		})
		for _, bp := range s.BedPrices {
			label, ok := Label(bp.Type)
			if !ok {
				label = string(bp.Type)
			}
			out = append(out, domain.FlatPriceRecord{
				StartDate:        start,
				EndDate:          end,
				RoomType:         label,
				Price:            toFloat(bp.Price),
				IsSharingAllowed: bp.Type == Sharing,
			})
		}
	}
	return out
}

// ParseWindow reads the availability fields of a payload. Unparseable dates are
// returned as zero dates together with a descriptive error per field.
func ParseWindow(p domain.HotelPricingPayload) (AvailabilityWindow, error) {
	w := AvailabilityWindow{IsActive: p.IsActive}
	var bad []string
	var err error
	if w.Start, err = ParseDate(p.AvailableStartDate); err != nil {
		bad = append(bad, "available_start_date: "+err.Error())
	}
	if w.End, err = ParseDate(p.AvailableEndDate); err != nil {
		bad = append(bad, "available_end_date: "+err.Error())
	}
	if len(bad) > 0 {
		return w, fmt.Errorf("invalid availability window: %s", strings.Join(bad, "; "))
	}
	return w, nil
}

// ToPayload builds the wire record for a window and its sections.
func ToPayload(w AvailabilityWindow, sections []PriceSection) domain.HotelPricingPayload {
	return domain.HotelPricingPayload{
		IsActive:           w.IsActive,
		AvailableStartDate: FormatDate(w.Start),
		AvailableEndDate:   FormatDate(w.End),
		Prices:             Flatten(sections),
	}
}

// ParseDate parses YYYY-MM-DD. An empty (or blank) string is an absent date, not an error.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, nil
	}
	return civil.ParseDate(s)
}

// FormatDate renders d as YYYY-MM-DD, or "" for an absent date.
func FormatDate(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseDate(s string, idx int, field string, diags *Diagnostics) civil.Date {
	d, err := ParseDate(s)
	if err != nil {
		*diags = append(*diags, Diagnostic{
			Category: InvalidDate,
			Index:    idx,
			Message:  fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, s),
		})
		return civil.Date{}
	}
	return d
}

func duplicateDiag(idx int, roomType string) Diagnostic {
	return Diagnostic{
		Category: DuplicateRoomType,
		Index:    idx,
		RoomType: roomType,
		Message:  fmt.Sprintf("room type %q appears more than once for the same dates; the later price is kept", roomType),
	}
}

func bedIndex(s PriceSection, t RoomTypeID) int {
	for i, bp := range s.BedPrices {
		if bp.Type == t {
			return i
		}
	}
	return -1
}

func toFloat(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
