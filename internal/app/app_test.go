package app_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotel_pricing/internal/app"
	"hotel_pricing/internal/domain"
	"hotel_pricing/internal/pricing"
)

// ---- fakes ----

type fakeRepo struct {
	stored map[int64]domain.HotelPricingPayload
	saves  int
	gets   int
	err    error
}

func (f *fakeRepo) GetPricing(ctx context.Context, id int64) (domain.HotelPricingPayload, error) {
	f.gets++
	p, ok := f.stored[id]
	if !ok {
		return domain.HotelPricingPayload{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) SavePricing(ctx context.Context, id int64, p domain.HotelPricingPayload) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil {
		f.stored = map[int64]domain.HotelPricingPayload{}
	}
	f.saves++
	f.stored[id] = p
	return nil
}

type fakeCache struct {
	store map[string]domain.HotelPricingPayload
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.HotelPricingPayload) = v
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]domain.HotelPricingPayload{}
	}
	c.store[key] = v.(domain.HotelPricingPayload)
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeSource struct {
	payloads map[int64]domain.HotelPricingPayload
	err      error
}

func (f *fakeSource) GetPricing(ctx context.Context, id int64) (domain.HotelPricingPayload, error) {
	if f.err != nil {
		return domain.HotelPricingPayload{}, f.err
	}
	p, ok := f.payloads[id]
	if !ok {
		return domain.HotelPricingPayload{}, domain.ErrNotFound
	}
	return p, nil
}

var januaryPayload = domain.HotelPricingPayload{
	IsActive:           true,
	AvailableStartDate: "2025-01-01",
	AvailableEndDate:   "2025-01-31",
	Prices: []domain.FlatPriceRecord{
		{StartDate: "2025-01-01", EndDate: "2025-01-15", RoomType: "Only-Room", Price: 100, IsSharingAllowed: true},
		{StartDate: "2025-01-01", EndDate: "2025-01-15", RoomType: "Sharing", Price: 25, IsSharingAllowed: true},
		{StartDate: "2025-01-16", EndDate: "2025-01-31", RoomType: "Only-Room", Price: 110},
		{StartDate: "2025-01-16", EndDate: "2025-01-31", RoomType: "Bunk", Price: 5},
	},
}

// ---- tests ----

func TestLoad_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{stored: map[int64]domain.HotelPricingPayload{7: januaryPayload}}
	cache := &fakeCache{}
	svc := app.NewPricingService(repo, cache, 10*time.Minute)

	sess, err := svc.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(sess.Sections) != 2 || sess.Window.Start != (civil.Date{Year: 2025, Month: 1, Day: 1}) {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.Diagnostics.Count(pricing.UnrecognizedRoomType) != 1 {
		t.Fatalf("expected the Bunk row to be reported, got %+v", sess.Diagnostics)
	}

	if _, err := svc.Load(context.Background(), 7); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("second load should come from cache, repo hit %d times", repo.gets)
	}
}

func TestLoad_NotFound(t *testing.T) {
	svc := app.NewPricingService(&fakeRepo{}, nil, time.Minute)
	if _, err := svc.Load(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewSession_EmptyRecordGetsOneSection(t *testing.T) {
	sess := app.NewSession(3, domain.HotelPricingPayload{})
	if len(sess.Sections) != 1 || sess.Sections[0].ID != 0 {
		t.Fatalf("expected one empty section, got %+v", sess.Sections)
	}
}

func TestSubmit_InvalidIsNotSaved(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewPricingService(repo, &fakeCache{}, time.Minute)

	sess := app.NewSession(9, januaryPayload)
	// open a gap: second section now starts on the 17th
	sections := pricing.SetSectionDates(sess.Sections, 1,
		civil.Date{Year: 2025, Month: 1, Day: 17}, civil.Date{Year: 2025, Month: 1, Day: 31})

	_, err := svc.Submit(context.Background(), 9, sess.Window, sections)
	if !errors.Is(err, app.ErrInvalidPricing) {
		t.Fatalf("expected ErrInvalidPricing, got %v", err)
	}
	var issues pricing.ValidationErrors
	if !errors.As(err, &issues) || !issues.Has(pricing.CoverageDiscontinuity) {
		t.Fatalf("expected CoverageDiscontinuity in %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("invalid pricing must not be saved")
	}
}

func TestSubmit_SavesOnceAndInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{stored: map[int64]domain.HotelPricingPayload{9: januaryPayload}}
	cache := &fakeCache{}
	svc := app.NewPricingService(repo, cache, time.Minute)

	sess, err := svc.Load(context.Background(), 9)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	sections, err := pricing.AddBedPrice(sess.Sections, 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	sections = pricing.SetBedPrice(sections, 1, "double", decimal.NewFromInt(70))

	p, err := svc.Submit(context.Background(), 9, sess.Window, sections)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected exactly one save, got %d", repo.saves)
	}
	if len(p.Prices) != 4 || p.Prices[3].RoomType != "Double Bed" || p.Prices[3].Price != 70 {
		t.Fatalf("unexpected saved prices: %+v", p.Prices)
	}
	if len(cache.dels) != 1 || cache.dels[0] != "hotel:9" {
		t.Fatalf("expected cache invalidation, got %v", cache.dels)
	}
}

func TestSubmit_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := app.NewPricingService(&fakeRepo{err: boom}, nil, time.Minute)
	sess := app.NewSession(1, januaryPayload)
	if _, err := svc.Submit(context.Background(), 1, sess.Window, sess.Sections); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

func TestImportHotel_Outcomes(t *testing.T) {
	gap := januaryPayload
	gap.AvailableStartDate = "2024-12-25"

	src := &fakeSource{payloads: map[int64]domain.HotelPricingPayload{1: januaryPayload, 2: gap}}
	repo := &fakeRepo{}
	imp := app.NewImportService(src, app.NewPricingService(repo, nil, time.Minute))
	ctx := context.Background()

	cases := []struct {
		id   int64
		want app.ImportOutcome
	}{
		{1, app.ImportSaved},
		{2, app.ImportInvalid},
		{3, app.ImportMissing},
	}
	for _, c := range cases {
		got, err := imp.ImportHotel(ctx, c.id)
		if err != nil {
			t.Fatalf("hotel %d: unexpected err %v", c.id, err)
		}
		if got != c.want {
			t.Fatalf("hotel %d: got %s want %s", c.id, got, c.want)
		}
	}
	if repo.saves != 1 {
		t.Fatalf("only the valid hotel should be saved, got %d saves", repo.saves)
	}
	// the unrecognized Bunk row is not carried into storage
	if n := len(repo.stored[1].Prices); n != 3 {
		t.Fatalf("expected 3 stored rows, got %d", n)
	}
}

func TestImportHotel_SourceError(t *testing.T) {
	imp := app.NewImportService(&fakeSource{err: errors.New("timeout")}, app.NewPricingService(&fakeRepo{}, nil, time.Minute))
	out, err := imp.ImportHotel(context.Background(), 1)
	if err == nil || out != app.ImportFailed {
		t.Fatalf("expected failure, got %s %v", out, err)
	}
}

type failingCache struct{ fakeCache }

func (c *failingCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return errors.New("redis unavailable")
}

func TestLoad_CacheWriteFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	repo := &fakeRepo{stored: map[int64]domain.HotelPricingPayload{4: januaryPayload}}
	svc := app.NewPricingService(repo, &failingCache{}, time.Minute)
	if _, err := svc.Load(context.Background(), 4); err != nil {
		t.Fatalf("cache failure must not fail the load: %v", err)
	}
	if !strings.Contains(buf.String(), "pricing cache write failed") || !strings.Contains(buf.String(), "redis unavailable") {
		t.Fatalf("expected a warning for the failed cache write, got %s", buf.String())
	}
}
