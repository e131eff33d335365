package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_desk/internal/adapters/observability"
	redisad "hotel_desk/internal/adapters/redis"
	"hotel_desk/internal/app"
	"hotel_desk/internal/billing"
	"hotel_desk/internal/shared"
	mysqlrepo "hotel_desk/internal/storage/mysql"
)

// nightaudit reprices every in-house stay and warms the running-total
// cache, so the morning shift sees fresh numbers without waiting on the
// calculator. Run it from cron at the audit hour.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().Int("workers", cfg.AuditWorkers).Msg("night audit starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	calc := billing.New(billing.Config{
		UTCOffsetHours:  cfg.BillingUTCOffsetH,
		HourlyOnlyBelow: time.Duration(cfg.BillingHourlyBelowH) * time.Hour,
	}, log.Logger)
	desk := app.NewFrontDeskService(repo, repo, repo, repo, repo, cache, calc, cfg.CacheTTL)

	board, err := repo.ListOccupancy(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list occupancy failed")
	}
	log.Info().Int("stays", len(board)).Msg("repricing in-house stays")

	sem := semaphore.NewWeighted(int64(cfg.AuditWorkers))
	var wg sync.WaitGroup
	var audited, failed int64
	var mu sync.Mutex

	for _, row := range board {
		row := row

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			bill, err := desk.RunningTotal(ctx, row.BookingID)
			if err != nil {
				log.Warn().Int64("booking_id", row.BookingID).Err(err).Msg("reprice failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Info().
				Int64("booking_id", row.BookingID).
				Str("room", row.RoomNumber).
				Str("strategy", bill.Room.Strategy).
				Int64("room_total", bill.Room.Total).
				Int64("grand_total", bill.GrandTotal).
				Msg("reprice ok")
			mu.Lock()
			audited++
			mu.Unlock()
		}()
	}

	wg.Wait()
	log.Info().Int64("audited", audited).Int64("failed", failed).Msg("night audit completed")
}
