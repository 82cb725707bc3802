package pricing

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
)

// Validate checks the window and sections and returns every problem found.
//
// Field presence, range sanity and price checks run over all inputs. The
// coverage partition (sections sorted by start date must begin on or before the
// window start, end on or after the window end, and each start the day after the
// previous end) is only checked once those pass everywhere, since it cannot be
// computed from missing or inverted dates. Price, bed type and duplicate
// problems do not block it, so a single call reports those alongside any
// coverage gaps or overlaps.
func Validate(w AvailabilityWindow, sections []PriceSection) ValidationErrors {
	var errs ValidationErrors

	windowOK := true
	if w.Start.IsZero() {
		errs = append(errs, Issue{Category: MissingField, Field: "available_start_date", Message: "availability start date is required"})
		windowOK = false
	}
	if w.End.IsZero() {
		errs = append(errs, Issue{Category: MissingField, Field: "available_end_date", Message: "availability end date is required"})
		windowOK = false
	}
	if windowOK && w.Start.After(w.End) {
		errs = append(errs, Issue{
			Category: InvalidRange,
			Field:    "available_start_date",
			Message:  fmt.Sprintf("availability start date %s is after end date %s", w.Start, w.End),
		})
		windowOK = false
	}

	sectionsOK := true
	for _, s := range sections {
		if !checkSection(s, &errs) {
			sectionsOK = false
		}
	}

	if !windowOK || !sectionsOK {
		return errs
	}
	return append(errs, checkCoverage(w, sections)...)
}

// checkSection appends field, range and price problems for s. It returns false
// when the section's dates cannot take part in the coverage check.
func checkSection(s PriceSection, errs *ValidationErrors) bool {
	ref := sectionRef(s.ID)
	datesOK := true

	if s.Start.IsZero() {
		*errs = append(*errs, Issue{Category: MissingField, SectionID: ref, Field: "start_date", Message: "start date is required"})
		datesOK = false
	}
	if s.End.IsZero() {
		*errs = append(*errs, Issue{Category: MissingField, SectionID: ref, Field: "end_date", Message: "end date is required"})
		datesOK = false
	}
	if datesOK && s.Start.After(s.End) {
		*errs = append(*errs, Issue{
			Category:  InvalidRange,
			SectionID: ref,
			Field:     "start_date",
			Message:   fmt.Sprintf("start date %s is after end date %s", s.Start, s.End),
		})
		datesOK = false
	}

	switch {
	case s.OnlyRoomPrice == nil:
		*errs = append(*errs, Issue{Category: MissingField, SectionID: ref, Field: "only_room_price", Message: "only-room price is required"})
	case s.OnlyRoomPrice.IsNegative():
		*errs = append(*errs, Issue{Category: NegativePrice, SectionID: ref, Field: "only_room_price", Message: "only-room price must not be negative"})
	}

	seen := make(map[RoomTypeID]bool, len(s.BedPrices))
	for _, bp := range s.BedPrices {
		if bp.Type == "" {
			*errs = append(*errs, Issue{Category: MissingField, SectionID: ref, Field: "bed_prices.type", Message: "bed price type is required"})
			continue
		}
		if !isBedType(bp.Type) {
			*errs = append(*errs, Issue{
				Category: UnrecognizedRoomType, SectionID: ref, BedType: bp.Type, Field: "bed_prices.type",
				Message: fmt.Sprintf("%q is not a bed type", bp.Type),
			})
		}
		if seen[bp.Type] {
			*errs = append(*errs, Issue{
				Category: DuplicateBedType, SectionID: ref, BedType: bp.Type, Field: "bed_prices.type",
				Message: fmt.Sprintf("bed type %s is priced more than once", bp.Type),
			})
		}
		seen[bp.Type] = true

		switch {
		case bp.Price == nil:
			*errs = append(*errs, Issue{Category: MissingField, SectionID: ref, BedType: bp.Type, Field: "bed_prices.price", Message: "bed price is required"})
		case bp.Price.IsNegative():
			*errs = append(*errs, Issue{Category: NegativePrice, SectionID: ref, BedType: bp.Type, Field: "bed_prices.price", Message: "bed price must not be negative"})
		}
	}
	return datesOK
}

func checkCoverage(w AvailabilityWindow, sections []PriceSection) ValidationErrors {
	if len(sections) == 0 {
		return ValidationErrors{{Category: CoverageGap, Field: "prices", Message: "at least one price section is required"}}
	}

	sorted := make([]PriceSection, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var errs ValidationErrors
	first, last := sorted[0], sorted[len(sorted)-1]
	if first.Start.After(w.Start) {
		errs = append(errs, Issue{
			Category: CoverageGap, SectionID: sectionRef(first.ID), Field: "start_date",
			Message: "first price section must start on or before availability start date",
		})
	}
	if last.End.Before(w.End) {
		errs = append(errs, Issue{
			Category: CoverageGap, SectionID: sectionRef(last.ID), Field: "end_date",
			Message: "last price section must end on or after availability end date",
		})
	}

	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		if next.Start == cur.Start && next.End == cur.End {
			errs = append(errs, Issue{
				Category: DuplicateRange, SectionID: sectionRef(next.ID), Field: "start_date",
				Message: fmt.Sprintf("sections %d and %d cover the same dates %s..%s", cur.ID, next.ID, cur.Start, cur.End),
			})
			continue
		}
		expected := cur.End.AddDays(1)
		if next.Start != expected {
			errs = append(errs, discontinuity(cur, next, expected))
		}
	}
	return errs
}

func discontinuity(cur, next PriceSection, expected civil.Date) Issue {
	actual := next.Start
	kind := "leaves a gap after"
	if actual.Before(expected) {
		kind = "overlaps"
	}
	return Issue{
		Category:  CoverageDiscontinuity,
		SectionID: sectionRef(next.ID),
		Field:     "start_date",
		Message: fmt.Sprintf("price sections must be continuous: section %d starting %s %s section %d ending %s (expected %s)",
			next.ID, actual, kind, cur.ID, cur.End, expected),
		Expected: &expected,
		Actual:   &actual,
	}
}
