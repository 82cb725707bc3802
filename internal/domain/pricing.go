package domain

// HotelPricingPayload is the record exchanged with the persistence layer.
type HotelPricingPayload struct {
	IsActive           bool              `json:"is_active"`
	AvailableStartDate string            `json:"available_start_date"` // YYYY-MM-DD
	AvailableEndDate   string            `json:"available_end_date"`   // YYYY-MM-DD
	Prices             []FlatPriceRecord `json:"prices"`
}

// FlatPriceRecord is one (date range, room type) price row.
type FlatPriceRecord struct {
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	RoomType         string  `json:"room_type"` // "Only-Room", "Sharing", "Double Bed", ..., "<N> Bed"
	Price            float64 `json:"price"`
	IsSharingAllowed bool    `json:"is_sharing_allowed"`
}
