package pricing

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// The functions below edit a pricing model during an edit session. Each returns
// a new slice and leaves its input untouched. References to unknown sections or
// bed types are ignored and the input comes back unchanged.

// AddSection appends an empty section whose id is one more than the largest id in use.
func AddSection(sections []PriceSection) []PriceSection {
	next := 0
	for _, s := range sections {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return append(cloneSections(sections), PriceSection{ID: next})
}

// RemoveSection drops the section with the given id. It fails with
// ErrMinimumSections rather than remove the last section.
func RemoveSection(sections []PriceSection, id int) ([]PriceSection, error) {
	if sectionIndex(sections, id) < 0 {
		return sections, nil
	}
	if len(sections) <= 1 {
		return sections, ErrMinimumSections
	}
	out := make([]PriceSection, 0, len(sections))
	for _, s := range sections {
		if s.ID != id {
			out = append(out, s.clone())
		}
	}
	return out, nil
}

// AddBedPrice adds an unpriced bed entry to a section. With an explicit type
// (typically Sharing) that type is added unless already present or not a
// bed type at all; only Sharing and catalog ids are accepted. Without one,
// the first catalog type not yet used in the section is picked, failing with
// ErrCatalogExhausted when none is left.
func AddBedPrice(sections []PriceSection, sectionID int, explicit ...RoomTypeID) ([]PriceSection, error) {
	i := sectionIndex(sections, sectionID)
	if i < 0 {
		return sections, nil
	}

	var t RoomTypeID
	if len(explicit) > 0 && explicit[0] != "" {
		t = explicit[0]
		if !isBedType(t) || sections[i].HasBedType(t) {
			return sections, nil
		}
	} else {
		for _, rt := range catalog {
			if !sections[i].HasBedType(rt.ID) {
				t = rt.ID
				break
			}
		}
		if t == "" {
			return sections, ErrCatalogExhausted
		}
	}

	out := cloneSections(sections)
	out[i].BedPrices = append(out[i].BedPrices, BedPrice{Type: t})
	return out, nil
}

func RemoveBedPrice(sections []PriceSection, sectionID int, t RoomTypeID) []PriceSection {
	i := sectionIndex(sections, sectionID)
	if i < 0 || bedIndex(sections[i], t) < 0 {
		return sections
	}
	out := cloneSections(sections)
	kept := out[i].BedPrices[:0]
	for _, bp := range out[i].BedPrices {
		if bp.Type != t {
			kept = append(kept, bp)
		}
	}
	out[i].BedPrices = kept
	return out
}

func SetOnlyRoomPrice(sections []PriceSection, sectionID int, v decimal.Decimal) []PriceSection {
	i := sectionIndex(sections, sectionID)
	if i < 0 {
		return sections
	}
	out := cloneSections(sections)
	out[i].OnlyRoomPrice = &v
	return out
}

func SetBedPrice(sections []PriceSection, sectionID int, t RoomTypeID, v decimal.Decimal) []PriceSection {
	i := sectionIndex(sections, sectionID)
	if i < 0 {
		return sections
	}
	j := bedIndex(sections[i], t)
	if j < 0 {
		return sections
	}
	out := cloneSections(sections)
	out[i].BedPrices[j].Price = &v
	return out
}

// SetSectionDates replaces a section's range. Zero dates clear the field.
func SetSectionDates(sections []PriceSection, sectionID int, start, end civil.Date) []PriceSection {
	i := sectionIndex(sections, sectionID)
	if i < 0 {
		return sections
	}
	out := cloneSections(sections)
	out[i].Start, out[i].End = start, end
	return out
}

func sectionIndex(sections []PriceSection, id int) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
