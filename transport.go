package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// request describes one logical API call. Retries of the same call share
// the request ID.
type request struct {
	method    string
	path      string
	body      any
	query     url.Values
	headers   map[string]string
	requestID string
}

// transport executes single requests against the API and classifies their
// failures. It holds no mutable state and is safe for concurrent use.
type transport struct {
	resty            *resty.Client
	baseURL          string
	logger           RequestLogger
	metrics          *metrics
	retryPolicy      RetryPolicy
	retryWaitTime    time.Duration
	retryMaxWaitTime time.Duration
}

func newTransport(cfg *Config, opts *Options, logger RequestLogger, m *metrics) *transport {
	httpTransport := opts.httpTransport
	if httpTransport == nil {
		httpTransport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.OpenTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	restyClient := resty.New().
		SetTransport(httpTransport).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(logger).
		SetHeaders(opts.requestHeaders).
		SetHeader("User-Agent", opts.userAgent)

	return &transport{
		resty:            restyClient,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		logger:           logger,
		metrics:          m,
		retryPolicy:      opts.retryPolicy,
		retryWaitTime:    opts.retryWaitTime,
		retryMaxWaitTime: opts.retryMaxWaitTime,
	}
}

// execute sends req exactly once.
func (t *transport) execute(ctx context.Context, req *request) (*Response, error) {
	if req.requestID == "" {
		req.requestID = uuid.NewString()
	}

	target := t.buildURL(req.path, req.query)
	t.logger.Debugf("[Multicard] %s %s", req.method, sanitizeURL(target))

	r := t.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", req.requestID)
	if len(req.headers) > 0 {
		r.SetHeaders(req.headers)
	}
	if req.body != nil {
		r.SetBody(req.body)
	}

	start := time.Now()
	resp, err := r.Execute(req.method, target)
	if err != nil {
		netErr := newNetworkError(err)
		t.logger.Warnf("[Multicard] %s %s failed: %s", req.method, sanitizeURL(target), sanitizeError(netErr, target))
		t.metrics.observeRequest(req.method, string(KindNetwork), time.Since(start))
		return nil, netErr
	}

	status := resp.StatusCode()
	t.logger.Debugf("[Multicard] %d", status)

	body := parseBody(resp.Body())
	if status < 200 || status > 299 {
		apiErr := classifyError(status, body)
		t.metrics.observeRequest(req.method, string(apiErr.Kind), time.Since(start))
		return nil, apiErr
	}

	t.metrics.observeRequest(req.method, "ok", time.Since(start))

	return &Response{
		HTTPStatus: status,
		Body:       body,
		Headers:    flattenHeaders(resp.Header()),
	}, nil
}

// executeWithRetry sends req and retries failures accepted by the retry
// policy up to retries times, with exponential backoff. The last error is
// returned unchanged once the budget is spent. Only idempotent calls may
// use it.
func (t *transport) executeWithRetry(ctx context.Context, req *request, retries int) (*Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := t.execute(ctx, req)
		if err == nil || attempt >= retries || ctx.Err() != nil || !t.retryPolicy(err) {
			return resp, err
		}

		delay := backoff(t.retryWaitTime, t.retryMaxWaitTime, attempt+1)
		target := t.buildURL(req.path, req.query)
		t.logger.Warnf("[Multicard] retrying %s %s in %v (retry %d/%d): %s",
			req.method, sanitizeURL(target), delay, attempt+1, retries, sanitizeError(err, target))
		t.metrics.observeRetry(req.method)

		if waitErr := sleepContext(ctx, delay); waitErr != nil {
			return nil, err
		}
	}
}

func (t *transport) buildURL(path string, query url.Values) string {
	target := t.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func newNetworkError(err error) *Error {
	msg := "Connection failed: " + err.Error()

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		msg = "Request timed out: " + err.Error()
	}

	return &Error{
		Kind:    KindNetwork,
		Message: msg,
		Err:     err,
	}
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for key, values := range h {
		headers[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	return headers
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
