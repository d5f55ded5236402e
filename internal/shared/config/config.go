package config

import (
	"time"

	"github.com/k1networth/civicdesk/internal/shared/env"
)

type Config struct {
	AppEnv string

	// Client side.
	APIBase     string
	PinAPIBase  string
	HTTPTimeout time.Duration
	ToastTTL    time.Duration
	SessionFile string

	// Reference backend.
	HTTPAddr    string
	StoreDriver string
	DatabaseURL string
}

func Load() Config {
	loadDotEnv(".env")

	return Config{
		AppEnv:      env.String("APP_ENV", "dev"),
		APIBase:     env.String("API_BASE", "http://127.0.0.1:8000/api"),
		PinAPIBase:  env.String("PIN_API_BASE", "https://api.postalpincode.in"),
		HTTPTimeout: env.Duration("HTTP_TIMEOUT", 15*time.Second),
		ToastTTL:    env.Duration("TOAST_TTL", 1800*time.Millisecond),
		SessionFile: env.String("SESSION_FILE", ".civicdesk/session.json"),
		HTTPAddr:    env.String("HTTP_ADDR", ":8000"),
		StoreDriver: env.String("STORE_DRIVER", "memory"),
		DatabaseURL: env.String("DATABASE_URL", ""),
	}
}
