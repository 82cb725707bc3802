package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_pricing/internal/adapters/observability"
	"hotel_pricing/internal/domain"
	"hotel_pricing/internal/pricing"
)

type ImportOutcome string

const (
	ImportSaved   ImportOutcome = "saved"
	ImportInvalid ImportOutcome = "invalid"
	ImportMissing ImportOutcome = "missing"
	ImportFailed  ImportOutcome = "failed"
)

// ImportService copies pricing from the legacy upstream into the repository,
// saving only records that pass validation.
type ImportService struct {
	source  domain.PricingSource
	pricing *PricingService
}

func NewImportService(src domain.PricingSource, ps *PricingService) *ImportService {
	return &ImportService{source: src, pricing: ps}
}

// ImportHotel fetches, normalizes, validates and saves one hotel. Records that
// are missing upstream or fail validation are reported through the outcome
// rather than as errors; an error means the import could not be attempted.
func (s *ImportService) ImportHotel(ctx context.Context, hotelID int64) (ImportOutcome, error) {
	out, err := s.importHotel(ctx, hotelID)
	observability.ObserveImport(string(out))
	return out, err
}

func (s *ImportService) importHotel(ctx context.Context, hotelID int64) (ImportOutcome, error) {
	p, err := s.source.GetPricing(ctx, hotelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info().Int64("hotel_id", hotelID).Msg("hotel not found upstream")
			return ImportMissing, nil
		}
		return ImportFailed, err
	}

	sess := NewSession(hotelID, p)
	_, err = s.pricing.Submit(ctx, hotelID, sess.Window, sess.Sections)
	if err == nil {
		return ImportSaved, nil
	}

	var issues pricing.ValidationErrors
	if errors.As(err, &issues) {
		for _, is := range issues {
			ev := log.Warn().Int64("hotel_id", hotelID).Str("category", string(is.Category)).Str("field", is.Field)
			if is.SectionID != nil {
				ev = ev.Int("section", *is.SectionID)
			}
			ev.Msg(is.Message)
		}
		return ImportInvalid, nil
	}
	return ImportFailed, err
}
