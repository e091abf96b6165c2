package api

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	WatchlistAdds      prometheus.Counter

	registry *prometheus.Registry
}

// InitMetrics registers the counters on a fresh registry so tests can
// create as many instances as they need.
func InitMetrics() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_request",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unsuccessful_request",
				Help: "Total number of unsuccessful (4xx) HTTP requests",
			},
			[]string{"path"},
		),
		WatchlistAdds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "watchlist_adds",
				Help: "Total number of motion pictures added to watchlists",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.SuccessfulRequests)
	m.registry.MustRegister(m.BadRequests)
	m.registry.MustRegister(m.WatchlistAdds)

	return m
}

// Nil-safe helpers so handlers don't need to guard every increment.

func (m *Metrics) CountSuccess(path string) {
	if m != nil {
		m.SuccessfulRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountBadRequest(path string) {
	if m != nil {
		m.BadRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountWatchlistAdd() {
	if m != nil {
		m.WatchlistAdds.Inc()
	}
}
