package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	UpstreamURL string
	UpstreamKey string
	UpstreamRPS int
	Workers     int
	HotelIDs    []int64
	CacheTTL    time.Duration
}

func Load() Config {
	// a missing .env is fine; real environment variables always win
	_ = gotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric config value")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/pricing?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		UpstreamURL: env("UPSTREAM_BASE_URL", "http://localhost:9000/api"),
		UpstreamKey: env("UPSTREAM_API_KEY", ""),
		UpstreamRPS: atoi("UPSTREAM_RPS", 5),
		Workers:     atoi("IMPORT_WORKERS", 8),
		HotelIDs:    ParseIDs(os.Getenv("IMPORT_HOTEL_IDS")),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// ParseIDs reads a comma or whitespace separated list of hotel ids, skipping junk.
func ParseIDs(s string) []int64 {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' })
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Str("value", f).Msg("skipping invalid hotel id")
			continue
		}
		out = append(out, id)
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
