package pricing

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

type Category string

const (
	MissingField          Category = "MissingField"
	InvalidRange          Category = "InvalidRange"
	NegativePrice         Category = "NegativePrice"
	DuplicateBedType      Category = "DuplicateBedType"
	CoverageGap           Category = "CoverageGap"
	CoverageDiscontinuity Category = "CoverageDiscontinuity"
	DuplicateRange        Category = "DuplicateRange"

	// reported by Unflatten
	UnrecognizedRoomType Category = "UnrecognizedRoomType"
	InvalidDate          Category = "InvalidDate"
	DuplicateRoomType    Category = "DuplicateRoomType"
)

var (
	ErrCatalogExhausted = errors.New("pricing: every room type is already priced in this section")
	ErrMinimumSections  = errors.New("pricing: at least one price section is required")
)

// Issue is a single problem found in a pricing model.
type Issue struct {
	Category Category `json:"category"`
	Field    string   `json:"field,omitempty"`
	// SectionID is nil for problems with the availability window or the section set as a whole.
	SectionID *int       `json:"section_id,omitempty"`
	BedType   RoomTypeID `json:"bed_type,omitempty"`
	Message   string     `json:"message"`

	// set for CoverageDiscontinuity
	Expected *civil.Date `json:"expected,omitempty"`
	Actual   *civil.Date `json:"actual,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Category))
	if i.SectionID != nil {
		fmt.Fprintf(&b, " [section %d]", *i.SectionID)
	}
	if i.Field != "" {
		b.WriteString(" " + i.Field)
	}
	b.WriteString(": " + i.Message)
	return b.String()
}

// Overlap reports whether a CoverageDiscontinuity was caused by the next section
// starting before the expected date, as opposed to leaving a gap.
func (i Issue) Overlap() bool {
	return i.Expected != nil && i.Actual != nil && i.Actual.Before(*i.Expected)
}

// ValidationErrors is the full set of problems found by Validate. An empty set means valid.
type ValidationErrors []Issue

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "pricing: valid"
	case 1:
		return "pricing: " + v[0].String()
	}
	parts := make([]string, len(v))
	for i, is := range v {
		parts[i] = is.String()
	}
	return fmt.Sprintf("pricing: %d problems: %s", len(v), strings.Join(parts, "; "))
}

func (v ValidationErrors) Has(c Category) bool {
	for _, is := range v {
		if is.Category == c {
			return true
		}
	}
	return false
}

// Categories returns each category once, in first-seen order.
func (v ValidationErrors) Categories() []Category {
	seen := map[Category]bool{}
	var out []Category
	for _, is := range v {
		if !seen[is.Category] {
			seen[is.Category] = true
			out = append(out, is.Category)
		}
	}
	return out
}

// Diagnostic is a warning raised while unflattening wire records.
type Diagnostic struct {
	Category Category `json:"category"`
	// Index of the offending record in the input slice.
	Index    int    `json:"index"`
	RoomType string `json:"room_type,omitempty"`
	Message  string `json:"message"`
}

type Diagnostics []Diagnostic

func (d Diagnostics) Count(c Category) int {
	n := 0
	for _, x := range d {
		if x.Category == c {
			n++
		}
	}
	return n
}

func sectionRef(id int) *int { return &id }
