package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET" default:"local_dev_secret"`
	Env         string `env:"APP_ENV" default:"dev"`

	// lock backend; empty RedisAddr keeps locks in-process
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	LockTTL       time.Duration `env:"LOCK_TTL" default:"10s"`

	// notifications
	AMQPURL          string `env:"AMQP_URL"`
	NotifyQueue      string `env:"NOTIFY_QUEUE" default:"booking_status_changes"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`

	PropertyCacheTTL  time.Duration `env:"PROPERTY_CACHE_TTL" default:"30s"`
	PropertyCacheSize int64         `env:"PROPERTY_CACHE_SIZE" default:"1000"`
}

func (a App) IsProd() bool { return a.Env == "prod" || a.Env == "production" }
