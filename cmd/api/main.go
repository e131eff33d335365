package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_desk/internal/adapters/auth"
	server "hotel_desk/internal/adapters/http_server"
	"hotel_desk/internal/adapters/observability"
	redisad "hotel_desk/internal/adapters/redis"
	"hotel_desk/internal/app"
	"hotel_desk/internal/billing"
	"hotel_desk/internal/shared"
	mysqlrepo "hotel_desk/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	calc := billing.New(billing.Config{
		UTCOffsetHours:  cfg.BillingUTCOffsetH,
		HourlyOnlyBelow: time.Duration(cfg.BillingHourlyBelowH) * time.Hour,
	}, log.Logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	desk := app.NewFrontDeskService(repo, repo, repo, repo, repo, cache, calc, cfg.CacheTTL)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	authSvc := app.NewAuthService(repo, tokens)

	// http
	srv := server.New(float64(cfg.RateRPS))
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Desk:      desk,
		Q:         q,
		Auth:      authSvc,
		RoomTypes: repo,
		Rooms:     repo,
		Customers: repo,
		Services:  repo,
		Bookings:  repo,
		Invoices:  repo,
	}, tokens, cfg.APIKey)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
