package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the environment, after merging a local .env file when present.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "err", err)
	}

	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LockTTL:       duration("LOCK_TTL", 10*time.Second),

		AMQPURL:          os.Getenv("AMQP_URL"),
		NotifyQueue:      getenv("NOTIFY_QUEUE", "booking_status_changes"),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),

		PropertyCacheTTL:  duration("PROPERTY_CACHE_TTL", 30*time.Second),
		PropertyCacheSize: int64(integer("PROPERTY_CACHE_SIZE", 1000)),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

func duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def.String())
		return def
	}
	return d
}

func integer(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
		return def
	}
	return n
}
