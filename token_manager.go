package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// tokenTTL is how long a bearer token is reused. Tokens are valid for 24
// hours upstream; dropping them an hour early keeps a token from expiring
// in the middle of a request.
const tokenTTL = 23 * time.Hour

const authPath = "/auth"

// tokenManager owns the bearer token. The whole check, refresh and read
// sequence runs under mu, so concurrent callers wait for a single refresh
// instead of each issuing their own.
type tokenManager struct {
	transport     *transport
	applicationID string
	secret        string
	metrics       *metrics
	now           func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenManager(t *transport, cfg *Config, m *metrics) *tokenManager {
	return &tokenManager{
		transport:     t,
		applicationID: cfg.ApplicationID,
		secret:        cfg.Secret,
		metrics:       m,
		now:           time.Now,
	}
}

// Token returns a valid bearer token, refreshing it first if it is missing
// or expired.
func (m *tokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expired() {
		if err := m.refresh(ctx); err != nil {
			return "", err
		}
	}

	return m.token, nil
}

// Reset drops the cached token so the next Token call refreshes it.
func (m *tokenManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.expiresAt = time.Time{}
}

func (m *tokenManager) expired() bool {
	return m.token == "" || !m.now().Before(m.expiresAt)
}

// refresh must be called with mu held.
func (m *tokenManager) refresh(ctx context.Context) error {
	resp, err := m.transport.execute(ctx, &request{
		method: http.MethodPost,
		path:   authPath,
		body: map[string]any{
			"application_id": m.applicationID,
			"secret":         m.secret,
		},
	})
	if err != nil {
		m.metrics.observeTokenRefresh("error")
		return authError(err)
	}

	// The auth endpoint answers {"token": "..."} without the usual envelope.
	token, _ := resp.Body["token"].(string)
	if token == "" {
		m.metrics.observeTokenRefresh("error")
		return &Error{
			Kind:         KindAuthentication,
			HTTPStatus:   resp.HTTPStatus,
			Message:      "Auth response missing token",
			ResponseBody: resp.Body,
		}
	}

	m.token = token
	m.expiresAt = m.now().Add(tokenTTL)
	m.metrics.observeTokenRefresh("ok")

	return nil
}

// authError reports a failed token request as an authentication error,
// keeping the transport error reachable through errors.As.
func authError(err error) error {
	if KindOf(err) == KindAuthentication {
		return err
	}

	wrapped := &Error{
		Kind:    KindAuthentication,
		Message: "failed to obtain access token",
		Err:     err,
	}
	if cause, ok := err.(*Error); ok {
		wrapped.HTTPStatus = cause.HTTPStatus
		wrapped.ErrorCode = cause.ErrorCode
		wrapped.ErrorDetails = cause.ErrorDetails
		wrapped.ResponseBody = cause.ResponseBody
	}
	return wrapped
}
