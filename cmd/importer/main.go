package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_pricing/internal/adapters/observability"
	redisad "hotel_pricing/internal/adapters/redis"
	"hotel_pricing/internal/adapters/upstream"
	"hotel_pricing/internal/app"
	"hotel_pricing/internal/shared"
	mysqlrepo "hotel_pricing/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	log.Info().
		Str("base", cfg.UpstreamURL).
		Int("workers", cfg.Workers).
		Int("hotels", len(cfg.HotelIDs)).
		Msg("importer starting")
	if len(cfg.HotelIDs) == 0 {
		log.Warn().Msg("IMPORT_HOTEL_IDS is empty; nothing to import")
		return
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	repo := mysqlrepo.New(db)
	if err := repo.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := upstream.New(cfg.UpstreamURL, cfg.UpstreamKey, cfg.UpstreamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	imp := app.NewImportService(client, app.NewPricingService(repo, cache, cfg.CacheTTL))

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[app.ImportOutcome]int{}
	)

	for _, id := range cfg.HotelIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := imp.ImportHotel(ctx, hotelID)
			mu.Lock()
			counts[out]++
			mu.Unlock()
			if err != nil {
				log.Warn().Int64("hotel_id", hotelID).Err(err).Msg("import failed")
				return
			}
			log.Info().Int64("hotel_id", hotelID).Str("outcome", string(out)).Msg("import done")
		}(id)
	}

	wg.Wait()
	log.Info().
		Int("saved", counts[app.ImportSaved]).
		Int("invalid", counts[app.ImportInvalid]).
		Int("missing", counts[app.ImportMissing]).
		Int("failed", counts[app.ImportFailed]).
		Msg("import completed")
}
