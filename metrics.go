package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "multicard_client"

// metrics holds the client's Prometheus collectors. A nil *metrics records
// nothing, so callers never need to check whether metrics are enabled.
type metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	retries        *prometheus.CounterVec
	authRetries    prometheus.Counter
	tokenRefreshes *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "HTTP requests sent to the Multicard API, by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "Latency of single HTTP exchanges with the Multicard API.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "retries_total",
				Help:      "Transport-level retries of idempotent requests.",
			},
			[]string{"method"},
		),
		authRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "auth_retries_total",
				Help:      "Requests repeated after an authentication failure.",
			},
		),
		tokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "token_refreshes_total",
				Help:      "Bearer token refreshes, by result.",
			},
			[]string{"result"},
		),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.retries, err = register(reg, m.retries); err != nil {
		return nil, err
	}
	if m.authRetries, err = register(reg, m.authRetries); err != nil {
		return nil, err
	}
	if m.tokenRefreshes, err = register(reg, m.tokenRefreshes); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers c, reusing an identical collector that another client
// already registered with reg.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observeRequest(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *metrics) observeRetry(method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method).Inc()
}

func (m *metrics) observeAuthRetry() {
	if m == nil {
		return
	}
	m.authRetries.Inc()
}

func (m *metrics) observeTokenRefresh(result string) {
	if m == nil {
		return
	}
	m.tokenRefreshes.WithLabelValues(result).Inc()
}
