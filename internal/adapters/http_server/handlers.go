package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_pricing/internal/app"
	"hotel_pricing/internal/domain"
	"hotel_pricing/internal/pricing"
)

const maxBodyBytes = 1 << 20

type Handlers struct{ P *app.PricingService }

type problem struct {
	Type   string          `json:"type"`
	Title  string          `json:"title"`
	Status int             `json:"status"`
	Detail string          `json:"detail,omitempty"`
	Errors []pricing.Issue `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/room-types", h.listRoomTypes)
	s.mux.Get("/v1/hotels/{id}/pricing", h.getPricing)
	s.mux.Put("/v1/hotels/{id}/pricing", h.putPricing)
	s.mux.Post("/v1/hotels/{id}/pricing/validate", h.validatePricing)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, issues ...pricing.Issue) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: issues}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func hotelID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func decodeSession(w http.ResponseWriter, r *http.Request) (pricing.AvailabilityWindow, []pricing.PriceSection, bool) {
	var in sessionDTO
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return pricing.AvailabilityWindow{}, nil, false
	}
	win, sections, err := in.toModel()
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return pricing.AvailabilityWindow{}, nil, false
	}
	return win, sections, true
}

type roomTypeDTO struct {
	ID       pricing.RoomTypeID `json:"id"`
	Label    string             `json:"label"`
	Reserved bool               `json:"reserved,omitempty"`
}

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	cat := pricing.Catalog()
	out := make([]roomTypeDTO, 0, len(cat)+2)
	for _, id := range []pricing.RoomTypeID{pricing.OnlyRoom, pricing.Sharing} {
		label, _ := pricing.Label(id)
		out = append(out, roomTypeDTO{ID: id, Label: label, Reserved: true})
	}
	for _, rt := range cat {
		out = append(out, roomTypeDTO{ID: rt.ID, Label: rt.Label})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getPricing(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(w, r)
	if !ok {
		return
	}
	sess, err := h.P.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel pricing not found")
			return
		}
		log.Error().Err(err).Int64("hotel_id", id).Msg("load pricing failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	etag, body := calcETagAndBody(fromSession(sess))
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getPricing body")
	}
}

type validationResult struct {
	Valid  bool            `json:"valid"`
	Errors []pricing.Issue `json:"errors"`
}

func (h *Handlers) validatePricing(w http.ResponseWriter, r *http.Request) {
	if _, ok := hotelID(w, r); !ok {
		return
	}
	win, sections, ok := decodeSession(w, r)
	if !ok {
		return
	}
	errs := h.P.Validate(win, sections)
	if errs == nil {
		errs = pricing.ValidationErrors{}
	}
	writeJSON(w, http.StatusOK, validationResult{Valid: len(errs) == 0, Errors: errs})
}

func (h *Handlers) putPricing(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(w, r)
	if !ok {
		return
	}
	win, sections, ok := decodeSession(w, r)
	if !ok {
		return
	}
	saved, err := h.P.Submit(r.Context(), id, win, sections)
	if err != nil {
		var issues pricing.ValidationErrors
		if errors.As(err, &issues) {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid pricing",
				fmt.Sprintf("%d problem(s) found", len(issues)), issues...)
			return
		}
		log.Error().Err(err).Int64("hotel_id", id).Msg("save pricing failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
