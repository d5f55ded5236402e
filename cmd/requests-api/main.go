package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/k1networth/civicdesk/internal/server"
	"github.com/k1networth/civicdesk/internal/shared/config"
	"github.com/k1networth/civicdesk/internal/shared/db"
	"github.com/k1networth/civicdesk/internal/shared/httpx"
	"github.com/k1networth/civicdesk/internal/shared/logger"
)

const appName = "requests-api"

func main() {
	cfg := config.Load()
	log := logger.New(appName, cfg.AppEnv)

	var store server.Store
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := db.OpenPostgres(context.Background(), db.PostgresConfig{
			DatabaseURL: cfg.DatabaseURL,
		})
		if err != nil {
			log.Error("postgres_open_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = pg.Close() }()
		store = server.NewPostgresStore(pg)
	default:
		store = server.NewInMemoryStore()
	}

	reqH := &server.Handler{
		Log:   log,
		Store: store,
	}

	reg := prometheus.NewRegistry()
	handler := httpx.NewRouter(log, reqH, reg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("http_listen", slog.String("addr", srv.Addr), slog.String("store", cfg.StoreDriver))

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error("http_server_error", slog.String("err", err.Error()))
		}
	}()

	httpx.WaitAndShutdown(log, srv, 10*time.Second)
}
