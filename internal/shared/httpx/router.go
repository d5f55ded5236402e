package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/k1networth/civicdesk/internal/server"
)

func NewRouter(log *slog.Logger, reqH *server.Handler, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.Handle("/api/requests", WithRoute("/api/requests", http.HandlerFunc(reqH.Requests)))
	mux.Handle("/api/requests/", WithRoute("/api/requests/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/requests/")
		reqH.RequestByID(w, r, id)
	})))

	var h http.Handler = mux
	h = NewMetrics(reg).Middleware(h)
	h = RequestID(h)
	h = AccessLog(log)(h)

	return h
}
