package api

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	opsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		opsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "civicdesk_api_requests_total",
				Help: "Total number of requests-API calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
	}

	reg.MustRegister(m.opsTotal)
	return m
}
