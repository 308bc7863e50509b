package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedBody(t *testing.T, secret string) string {
	t.Helper()

	cb := Callback{StoreID: "100", InvoiceID: "ORD-001", Amount: "500000"}
	return `{"store_id":100,"invoice_id":"ORD-001","amount":500000,"sign":"` + Sign(cb, secret) + `"}`
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		body       string
		fnErr      error
		wantStatus int
		wantCalled bool
	}{
		{"valid callback", http.MethodPost, signedBody(t, "s"), nil, http.StatusOK, true},
		{"wrong secret", http.MethodPost, signedBody(t, "other"), nil, http.StatusForbidden, false},
		{"malformed body", http.MethodPost, `{"store_id":`, nil, http.StatusBadRequest, false},
		{"missing sign", http.MethodPost, `{"store_id":100,"invoice_id":"ORD-001","amount":500000}`, nil, http.StatusBadRequest, false},
		{"handler failure", http.MethodPost, signedBody(t, "s"), errors.New("db down"), http.StatusInternalServerError, true},
		{"wrong method", http.MethodGet, "", nil, http.StatusMethodNotAllowed, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got *Callback
			h := NewHandler("s", func(_ context.Context, cb *Callback) error {
				got = cb
				return tt.fnErr
			}, discardLogger())

			req := httptest.NewRequest(tt.method, "/multicard/callback", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantCalled, got != nil)

			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"success":true}`, rec.Body.String())
				require.NotNil(t, got)
				assert.Equal(t, "ORD-001", got.InvoiceID)
			}
		})
	}
}

func TestHandler_NilLogger(t *testing.T) {
	t.Parallel()

	h := NewHandler("s", func(context.Context, *Callback) error { return nil }, nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(signedBody(t, "s")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
