package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_pricing/internal/adapters/observability"
	"hotel_pricing/internal/domain"
	"hotel_pricing/internal/pricing"
)

// ErrInvalidPricing wraps the pricing.ValidationErrors returned by Submit.
var ErrInvalidPricing = errors.New("invalid pricing")

// Session is the editable form of one hotel's pricing.
type Session struct {
	HotelID     int64                      `json:"hotel_id"`
	Window      pricing.AvailabilityWindow `json:"availability"`
	Sections    []pricing.PriceSection     `json:"sections"`
	Diagnostics pricing.Diagnostics        `json:"diagnostics,omitempty"`
}

type PricingService struct {
	repo     domain.PricingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewPricingService(r domain.PricingRepository, c domain.Cache, ttl time.Duration) *PricingService {
	return &PricingService{repo: r, cache: c, cacheTTL: ttl}
}

func cacheKey(hotelID int64) string { return fmt.Sprintf("hotel:%d", hotelID) }

// Load reads the stored record (cache first) and turns it into an edit session.
func (s *PricingService) Load(ctx context.Context, hotelID int64) (Session, error) {
	key := cacheKey(hotelID)
	var p domain.HotelPricingPayload
	hit := false
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &p)
		if err != nil {
			log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("pricing cache read failed")
		}
		hit = ok && err == nil
	}
	if !hit {
		var err error
		p, err = s.repo.GetPricing(ctx, hotelID)
		if err != nil {
			return Session{}, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("pricing cache write failed")
			}
		}
	}
	return NewSession(hotelID, p), nil
}

// NewSession unflattens a stored record. Problems with the record are logged and
// kept on the session so they can be shown next to validation results.
func NewSession(hotelID int64, p domain.HotelPricingPayload) Session {
	w, err := pricing.ParseWindow(p)
	if err != nil {
		log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("stored availability window is malformed")
	}
	sections, diags := pricing.Unflatten(p.Prices)
	for _, d := range diags {
		observability.ObserveDiagnostic(string(d.Category))
		log.Warn().
			Int64("hotel_id", hotelID).
			Str("category", string(d.Category)).
			Int("record", d.Index).
			Str("room_type", d.RoomType).
			Msg(d.Message)
	}
	if len(sections) == 0 {
		sections = pricing.AddSection(nil)
	}
	return Session{HotelID: hotelID, Window: w, Sections: sections, Diagnostics: diags}
}

// Validate runs the coverage checks and records one metric per problem.
func (s *PricingService) Validate(w pricing.AvailabilityWindow, sections []pricing.PriceSection) pricing.ValidationErrors {
	errs := pricing.Validate(w, sections)
	for _, is := range errs {
		observability.ObserveValidation(string(is.Category))
	}
	return errs
}

// Submit validates the model and, only when it is valid, flattens it and saves it.
// Validation failures come back as an error wrapping ErrInvalidPricing and the
// full pricing.ValidationErrors set.
func (s *PricingService) Submit(ctx context.Context, hotelID int64, w pricing.AvailabilityWindow, sections []pricing.PriceSection) (domain.HotelPricingPayload, error) {
	if errs := s.Validate(w, sections); len(errs) > 0 {
		log.Info().Int64("hotel_id", hotelID).Int("problems", len(errs)).Msg("pricing rejected")
		return domain.HotelPricingPayload{}, fmt.Errorf("hotel %d: %w: %w", hotelID, ErrInvalidPricing, errs)
	}

	p := pricing.ToPayload(w, sections)
	if err := s.repo.SavePricing(ctx, hotelID, p); err != nil {
		return domain.HotelPricingPayload{}, fmt.Errorf("save pricing for hotel %d: %w", hotelID, err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(hotelID)); err != nil {
			log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("pricing cache invalidation failed")
		}
	}
	log.Info().Int64("hotel_id", hotelID).Int("sections", len(sections)).Int("records", len(p.Prices)).Msg("pricing saved")
	return p, nil
}
