package pricing

import (
	"strconv"
	"strings"
)

// RoomTypeID identifies a bed category, or one of the reserved ids OnlyRoom and Sharing.
type RoomTypeID string

const (
	// OnlyRoom is the base room-only rate. It is carried by PriceSection.OnlyRoomPrice,
	// never as a BedPrice.
	OnlyRoom RoomTypeID = "Only-Room"
	// Sharing is the shared-bed option. It is priced like a bed type but is not in the catalog.
	Sharing RoomTypeID = "sharing"

	onlyRoomLabel = "Only-Room"
	sharingLabel  = "Sharing"

	minNumberedBeds = 6
	maxNumberedBeds = 100
)

type RoomType struct {
	ID    RoomTypeID `json:"id"`
	Label string     `json:"label"`
}

var namedRoomTypes = []RoomType{
	{ID: "double", Label: "Double Bed"},
	{ID: "triple", Label: "Triple Bed"},
	{ID: "quad", Label: "Quad Bed"},
	{ID: "quint", Label: "Quint Bed"},
}

// alias groups, keyed by canonical id; compared after normalizeKey
var roomTypeAliases = map[RoomTypeID][]string{
	OnlyRoom: {"single", "onlyroom", "only-room", "only_room"},
	Sharing:  {"sharing", "share", "is_sharing_allowed"},
	"double": {"double", "doublebed", "double-bed", "double_bed"},
	"triple": {"triple", "triplebed", "triple-bed", "triple_bed"},
	"quad":   {"quad", "quadbed", "quad-bed", "quad_bed"},
	"quint":  {"quint", "quintbed", "quint-bed", "quint_bed"},
}

var (
	catalog     = generateCatalog()
	labelByID   = map[RoomTypeID]string{}
	idByKey     = map[string]RoomTypeID{}
	catalogByID = map[RoomTypeID]int{}
)

func init() {
	labelByID[OnlyRoom] = onlyRoomLabel
	labelByID[Sharing] = sharingLabel
	for i, rt := range catalog {
		labelByID[rt.ID] = rt.Label
		catalogByID[rt.ID] = i
		idByKey[normalizeKey(rt.Label)] = rt.ID
		idByKey[normalizeKey(string(rt.ID))] = rt.ID
	}
	// aliases take precedence over label matches
	for id, aliases := range roomTypeAliases {
		for _, a := range aliases {
			idByKey[normalizeKey(a)] = id
		}
	}
}

func generateCatalog() []RoomType {
	out := make([]RoomType, 0, len(namedRoomTypes)+maxNumberedBeds-minNumberedBeds+1)
	out = append(out, namedRoomTypes...)
	for n := minNumberedBeds; n <= maxNumberedBeds; n++ {
		s := strconv.Itoa(n)
		out = append(out, RoomType{ID: RoomTypeID(s + "Bed"), Label: s + " Bed"})
	}
	return out
}

// Catalog returns the canonical bed types in display order. The slice is a copy.
func Catalog() []RoomType {
	out := make([]RoomType, len(catalog))
	copy(out, catalog)
	return out
}

// IsCatalogType reports whether id is one of the generated bed types.
// OnlyRoom and Sharing are not.
func IsCatalogType(id RoomTypeID) bool {
	_, ok := catalogByID[id]
	return ok
}

// isBedType reports whether id may appear in PriceSection.BedPrices.
func isBedType(id RoomTypeID) bool { return id == Sharing || IsCatalogType(id) }

// Label returns the wire label for id.
func Label(id RoomTypeID) (string, bool) {
	l, ok := labelByID[id]
	return l, ok
}

// NormalizeLabel maps a loose room type label ("37 bed", "double_bed", "Only Room")
// to its canonical id.
func NormalizeLabel(raw string) (RoomTypeID, bool) {
	key := normalizeKey(raw)
	if key == "" {
		return "", false
	}
	id, ok := idByKey[key]
	return id, ok
}

// normalizeKey lowercases and keeps only ASCII letters and digits.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
