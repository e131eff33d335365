package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	APIKey      string
	TokenTTL    time.Duration
	CacheTTL    time.Duration
	RateRPS     int

	// Billing knobs; see internal/billing.
	BillingUTCOffsetH   int
	BillingHourlyBelowH int

	// cmd/nightaudit worker pool size.
	AuditWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/frontdesk?parseTime=true&clientFoundRows=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		JWTSecret:   env("JWT_SECRET", ""),
		APIKey:      env("API_KEY", ""),
		TokenTTL:    time.Duration(atoi("TOKEN_TTL_MINUTES", 480)) * time.Minute,
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		RateRPS:     atoi("RATE_LIMIT_RPS", 50),

		BillingUTCOffsetH:   atoi("BILLING_UTC_OFFSET_HOURS", 7),
		BillingHourlyBelowH: atoi("BILLING_HOURLY_ONLY_BELOW_HOURS", 5),

		AuditWorkers: atoi("AUDIT_WORKERS", 8),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
