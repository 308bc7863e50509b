package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/peteraglen/multicard-go-client"

// Client is a Multicard API client. It is safe for concurrent use; the only
// shared mutable state is the cached bearer token.
type Client struct {
	config    *Config
	options   *Options
	logger    RequestLogger
	transport *transport
	tokens    *tokenManager
	metrics   *metrics
	tracer    trace.Tracer

	invoices *Invoices
	payments *Payments
	cards    *Cards
	holds    *Holds
	payouts  *Payouts
	registry *Registry
}

// New creates a client from cfg. cfg is validated and copied; later
// changes to it do not affect the client.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := newClientOptions()
	for _, o := range opts {
		o(options)
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	config := cfg.Merge()

	logger := options.requestLogger
	if config.Logger != nil {
		logger = config.Logger
	}
	safe := newSafeLogger(logger)

	m, err := newMetrics(options.metricsRegistry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	tp := options.tracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	t := newTransport(config, options, safe, m)

	c := &Client{
		config:    config,
		options:   options,
		logger:    safe,
		transport: t,
		tokens:    newTokenManager(t, config, m),
		metrics:   m,
		tracer:    tp.Tracer(tracerName, trace.WithInstrumentationVersion(Version)),
	}

	c.invoices = &Invoices{client: c}
	c.payments = &Payments{client: c}
	c.cards = &Cards{client: c}
	c.holds = &Holds{client: c}
	c.payouts = &Payouts{client: c}
	c.registry = &Registry{client: c}

	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() *Config {
	return c.config.Merge()
}

func (c *Client) Invoices() *Invoices { return c.invoices }
func (c *Client) Payments() *Payments { return c.payments }
func (c *Client) Cards() *Cards       { return c.cards }
func (c *Client) Holds() *Holds       { return c.holds }
func (c *Client) Payouts() *Payouts   { return c.payouts }
func (c *Client) Registry() *Registry { return c.registry }

// Connect verifies the credentials by obtaining a bearer token. Calling it
// is optional; the first authenticated request fetches a token anyway.
func (c *Client) Connect(ctx context.Context) error {
	if c == nil {
		return errors.New("multicard client is nil")
	}

	if _, err := c.tokens.Token(ctx); err != nil {
		return fmt.Errorf("failed to authenticate with Multicard API: %w", err)
	}

	return nil
}

// Close drops the cached token and releases idle connections.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.tokens.Reset()
	c.transport.resty.GetClient().CloseIdleConnections()
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, params)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, params)
}

// Request performs an authenticated API call.
//
// GET and DELETE are idempotent and are retried on transient failures
// (network errors, 429, 5xx). POST is sent once per attempt, since
// repeating a payment call could charge a card twice.
//
// Independently of that, if the call fails with an authentication error
// the cached token is dropped and the whole call is repeated once with a
// fresh token. A second authentication failure is returned as is.
//
// Paths with a "." or ".." segment are rejected with [ErrInvalidPath].
func (c *Client) Request(ctx context.Context, method, path string, body any, params url.Values) (*Response, error) {
	if c == nil {
		return nil, errors.New("multicard client is nil")
	}

	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if hasDotSegment(path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	ctx, span := c.tracer.Start(ctx, "multicard "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", redactPath(path)),
		),
	)
	defer span.End()

	// Both auth attempts share one request ID.
	req := &request{method: method, path: path, body: body, query: params, requestID: uuid.NewString()}

	resp, err := c.executeAuthenticated(ctx, req)
	if KindOf(err) == KindAuthentication {
		c.logger.Warnf("[Multicard] %s %s: authentication failed, retrying with a new token", method, redactPath(path))
		c.tokens.Reset()
		c.metrics.observeAuthRetry()
		span.SetAttributes(attribute.Bool("multicard.auth_retry", true))

		resp, err = c.executeAuthenticated(ctx, req)
	}

	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.String("multicard.error_kind", string(apiErr.Kind)))
			if apiErr.HTTPStatus != 0 {
				span.SetAttributes(attribute.Int("http.response.status_code", apiErr.HTTPStatus))
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.HTTPStatus))
	return resp, nil
}

func (c *Client) executeAuthenticated(ctx context.Context, req *request) (*Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	attempt := *req
	attempt.headers = map[string]string{"Authorization": "Bearer " + token}

	if req.method == http.MethodPost {
		return c.transport.execute(ctx, &attempt)
	}
	return c.transport.executeWithRetry(ctx, &attempt, c.options.retryCount)
}
