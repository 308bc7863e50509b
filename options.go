package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type Option func(*Options)

// Options tunes how a [Client] talks to the API. Credentials and timeouts
// live in [Config]; these settings cover retries, headers, observability
// and the HTTP transport.
type Options struct {
	retryCount       int
	retryWaitTime    time.Duration
	retryMaxWaitTime time.Duration
	requestLogger    RequestLogger
	retryPolicy      RetryPolicy
	requestHeaders   map[string]string
	userAgent        string
	httpTransport    http.RoundTripper
	metricsRegistry  prometheus.Registerer
	tracerProvider   trace.TracerProvider
}

func newClientOptions() *Options {
	return &Options{
		retryCount:       2,
		retryWaitTime:    500 * time.Millisecond,
		retryMaxWaitTime: 5 * time.Second,
		requestLogger:    &NoopLogger{},
		retryPolicy:      DefaultRetryPolicy,
		requestHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		userAgent: "multicard-go-client/" + Version,
	}
}

// WithRetryCount sets how many times idempotent calls (GET, DELETE) are
// retried after a transient failure. POST calls are never retried.
func WithRetryCount(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.retryCount = count
		}
	}
}

// WithRetryWaitTime sets the base backoff delay. The n-th retry waits
// waitTime * 2^n, capped by [WithRetryMaxWaitTime].
func WithRetryWaitTime(waitTime time.Duration) Option {
	return func(o *Options) {
		if waitTime >= 10*time.Millisecond {
			o.retryWaitTime = waitTime
		}
	}
}

func WithRetryMaxWaitTime(maxWaitTime time.Duration) Option {
	return func(o *Options) {
		if maxWaitTime >= 10*time.Millisecond {
			o.retryMaxWaitTime = maxWaitTime
		}
	}
}

// WithRequestLogger sets the logger used when [Config.Logger] is nil.
func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *Options) {
		if policy != nil {
			o.retryPolicy = policy
		}
	}
}

// WithRequestHeader adds a header to every request. Content-Type, Accept
// and Authorization are managed by the client and cannot be overridden.
func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || isProtectedHeader(header) {
			return
		}

		o.requestHeaders[header] = value
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		if strings.TrimSpace(userAgent) != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPTransport replaces the default HTTP transport. The connect timeout
// from [Config.OpenTimeout] only applies to the default transport.
func WithHTTPTransport(transport http.RoundTripper) Option {
	return func(o *Options) {
		if transport != nil {
			o.httpTransport = transport
		}
	}
}

// WithMetrics registers the client's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) {
		if reg != nil {
			o.metricsRegistry = reg
		}
	}
}

// WithTracerProvider enables OpenTelemetry spans for authenticated requests.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

func isProtectedHeader(header string) bool {
	return strings.EqualFold(header, "Content-Type") ||
		strings.EqualFold(header, "Accept") ||
		strings.EqualFold(header, "Authorization")
}

// Validate checks the options for values that cannot be used.
func (o *Options) Validate() error {
	if o.retryCount < 0 {
		return errors.New("retryCount must be non-negative")
	}

	if o.retryCount > 10 {
		return errors.New("retryCount must not exceed 10")
	}

	if o.retryWaitTime < 10*time.Millisecond {
		return errors.New("retryWaitTime must be at least 10ms")
	}

	if o.retryWaitTime > time.Minute {
		return fmt.Errorf("retryWaitTime must not exceed %v", time.Minute)
	}

	if o.retryMaxWaitTime < 10*time.Millisecond {
		return errors.New("retryMaxWaitTime must be at least 10ms")
	}

	if o.retryMaxWaitTime > 5*time.Minute {
		return fmt.Errorf("retryMaxWaitTime must not exceed %v", 5*time.Minute)
	}

	if o.retryMaxWaitTime < o.retryWaitTime {
		return fmt.Errorf("retryMaxWaitTime (%v) must be greater than or equal to retryWaitTime (%v)", o.retryMaxWaitTime, o.retryWaitTime)
	}

	if o.requestLogger == nil {
		return errors.New("requestLogger must not be nil")
	}

	if o.retryPolicy == nil {
		return errors.New("retryPolicy must not be nil")
	}

	return nil
}
