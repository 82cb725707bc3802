package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type PricingRepository interface {
	GetPricing(ctx context.Context, hotelID int64) (HotelPricingPayload, error)
	// SavePricing replaces the hotel's availability window and every price row.
	SavePricing(ctx context.Context, hotelID int64, p HotelPricingPayload) error
}

// PricingSource is an upstream system that still owns legacy pricing records.
type PricingSource interface {
	GetPricing(ctx context.Context, hotelID int64) (HotelPricingPayload, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
