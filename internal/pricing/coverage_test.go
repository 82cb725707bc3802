package pricing_test

import (
	"reflect"
	"testing"

	"cloud.google.com/go/civil"

	"hotel_pricing/internal/pricing"
)

func TestValidate_ExactSingleSection(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	errs := pricing.Validate(w, []pricing.PriceSection{section(t, 0, "2025-01-01", "2025-01-31", "100")})
	if len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidate_ContiguousSectionsAnyOrder(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	secs := []pricing.PriceSection{
		section(t, 0, "2025-01-21", "2025-01-31", "100"),
		section(t, 1, "2025-01-01", "2025-01-10", "100", bed("double", "50")),
		section(t, 2, "2025-01-11", "2025-01-20", "100"),
	}
	if errs := pricing.Validate(w, secs); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidate_SectionsMayExtendBeyondWindow(t *testing.T) {
	w := window(t, "2025-01-05", "2025-01-25")
	errs := pricing.Validate(w, []pricing.PriceSection{section(t, 0, "2025-01-01", "2025-01-31", "100")})
	if len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestValidate_Gap(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	errs := pricing.Validate(w, []pricing.PriceSection{
		section(t, 0, "2025-01-01", "2025-01-10", "100"),
		section(t, 1, "2025-01-12", "2025-01-31", "100"),
	})
	if len(errs) != 1 || errs[0].Category != pricing.CoverageDiscontinuity {
		t.Fatalf("expected one CoverageDiscontinuity, got %v", errs)
	}
	is := errs[0]
	if is.Overlap() {
		t.Fatalf("gap reported as overlap")
	}
	if *is.Expected != day(t, "2025-01-11") || *is.Actual != day(t, "2025-01-12") {
		t.Fatalf("unexpected expected/actual: %s %s", is.Expected, is.Actual)
	}
	if is.SectionID == nil || *is.SectionID != 1 {
		t.Fatalf("expected issue on section 1, got %v", is.SectionID)
	}
}

func TestValidate_Overlap(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	errs := pricing.Validate(w, []pricing.PriceSection{
		section(t, 0, "2025-01-01", "2025-01-15", "100"),
		section(t, 1, "2025-01-10", "2025-01-31", "100"),
	})
	if len(errs) != 1 || errs[0].Category != pricing.CoverageDiscontinuity {
		t.Fatalf("expected one CoverageDiscontinuity, got %v", errs)
	}
	if !errs[0].Overlap() {
		t.Fatalf("overlap not detected as such")
	}
}

func TestValidate_BoundaryGaps(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")

	errs := pricing.Validate(w, []pricing.PriceSection{section(t, 0, "2025-01-05", "2025-01-31", "100")})
	if len(errs) != 1 || errs[0].Category != pricing.CoverageGap {
		t.Fatalf("expected CoverageGap at start, got %v", errs)
	}
	if errs[0].Message != "first price section must start on or before availability start date" {
		t.Fatalf("unexpected message: %s", errs[0].Message)
	}

	errs = pricing.Validate(w, []pricing.PriceSection{section(t, 0, "2025-01-01", "2025-01-30", "100")})
	if len(errs) != 1 || errs[0].Message != "last price section must end on or after availability end date" {
		t.Fatalf("expected CoverageGap at end, got %v", errs)
	}
}

func TestValidate_NoSections(t *testing.T) {
	errs := pricing.Validate(window(t, "2025-01-01", "2025-01-31"), nil)
	if !errs.Has(pricing.CoverageGap) {
		t.Fatalf("expected CoverageGap, got %v", errs)
	}
}

func TestValidate_DuplicateRange(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	errs := pricing.Validate(w, []pricing.PriceSection{
		section(t, 0, "2025-01-01", "2025-01-31", "100"),
		section(t, 1, "2025-01-01", "2025-01-31", "110"),
	})
	if len(errs) != 1 || errs[0].Category != pricing.DuplicateRange {
		t.Fatalf("expected DuplicateRange, got %v", errs)
	}
}

func TestValidate_AccumulatesFieldErrors(t *testing.T) {
	w := pricing.AvailabilityWindow{} // both dates missing
	secs := []pricing.PriceSection{
		{ID: 0}, // no dates, no price
		{ID: 1, Start: day(t, "2025-01-10"), End: day(t, "2025-01-01"), OnlyRoomPrice: money("-1"),
			BedPrices: []pricing.BedPrice{{Type: "double"}, bed("double", "5"), {Price: money("1")}}},
	}
	errs := pricing.Validate(w, secs)

	count := map[pricing.Category]int{}
	for _, e := range errs {
		count[e.Category]++
	}
	// window start+end, section 0 start+end+price, section 1 bed price + bed type
	if count[pricing.MissingField] != 7 {
		t.Fatalf("expected 7 MissingField, got %d: %v", count[pricing.MissingField], errs)
	}
	if count[pricing.InvalidRange] != 1 || count[pricing.NegativePrice] != 1 || count[pricing.DuplicateBedType] != 1 {
		t.Fatalf("unexpected counts %v: %v", count, errs)
	}
	if errs.Has(pricing.CoverageGap) || errs.Has(pricing.CoverageDiscontinuity) {
		t.Fatalf("coverage must not be checked when fields are invalid: %v", errs)
	}
}

func TestValidate_InvalidWindowRange(t *testing.T) {
	w := window(t, "2025-02-01", "2025-01-01")
	errs := pricing.Validate(w, []pricing.PriceSection{section(t, 0, "2025-01-01", "2025-02-01", "100")})
	if len(errs) != 1 || errs[0].Category != pricing.InvalidRange || errs[0].SectionID != nil {
		t.Fatalf("expected window InvalidRange only, got %v", errs)
	}
}

func TestValidate_SingleDaySections(t *testing.T) {
	w := window(t, "2024-02-28", "2024-03-01")
	errs := pricing.Validate(w, []pricing.PriceSection{
		section(t, 0, "2024-02-28", "2024-02-28", "1"),
		section(t, 1, "2024-02-29", "2024-02-29", "1"),
		section(t, 2, "2024-03-01", "2024-03-01", "1"),
	})
	if len(errs) != 0 {
		t.Fatalf("leap-day partition should be valid, got %v", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs pricing.ValidationErrors
	if errs.Error() == "" {
		t.Fatalf("empty set still needs a message")
	}
	d := civil.Date{Year: 2025, Month: 1, Day: 2}
	errs = append(errs, pricing.Issue{Category: pricing.CoverageDiscontinuity, Message: "x", Expected: &d, Actual: &d})
	errs = append(errs, pricing.Issue{Category: pricing.CoverageGap, Message: "y"})
	if got := errs.Categories(); len(got) != 2 || got[0] != pricing.CoverageDiscontinuity {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestValidate_RejectsNonBedTypes(t *testing.T) {
	w := window(t, "2025-01-01", "2025-01-31")
	secs := []pricing.PriceSection{
		section(t, 0, "2025-01-01", "2025-01-31", "100",
			bed("bogus", "10"), bed(pricing.OnlyRoom, "20"), bed("37 Bed", "30"), bed("37Bed", "5"), bed(pricing.Sharing, "8")),
	}
	errs := pricing.Validate(w, secs)
	var got []pricing.RoomTypeID
	for _, e := range errs {
		if e.Category != pricing.UnrecognizedRoomType {
			t.Fatalf("unexpected issue %v", e)
		}
		got = append(got, e.BedType)
	}
	want := []pricing.RoomTypeID{"bogus", pricing.OnlyRoom, "37 Bed"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
