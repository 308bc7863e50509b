package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

type requestRecorder struct {
	mu   sync.Mutex
	last recordedRequest
}

func (rr *requestRecorder) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	rec := recordedRequest{
		method: r.Method,
		path:   r.URL.EscapedPath(),
		query:  r.URL.Query(),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.body)
	}

	rr.mu.Lock()
	rr.last = rec
	rr.mu.Unlock()

	okHandler(w, r)
}

func (rr *requestRecorder) request() recordedRequest {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.last
}

func newStoreClient(t *testing.T, baseURL string, storeID int64) *Client {
	t.Helper()

	cfg := NewConfig(
		WithApplicationID("app-1"),
		WithSecret("s3cret"),
		WithBaseURL(baseURL),
		WithStoreID(storeID),
	)

	c, err := New(cfg, WithRetryWaitTime(10*time.Millisecond), WithRetryMaxWaitTime(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func int64Ptr(v int64) *int64 { return &v }

func TestResources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *Client) (*Response, error)
		wantMethod string
		wantPath   string
		wantBody   map[string]any
	}{
		{
			name: "create invoice uses configured store",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Invoices().Create(ctx, CreateInvoiceParams{
					Amount:      500000,
					InvoiceID:   "ORD-001",
					CallbackURL: "https://shop.example.com/cb",
				})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/invoice",
			wantBody: map[string]any{
				"amount":       float64(500000),
				"store_id":     float64(77),
				"invoice_id":   "ORD-001",
				"callback_url": "https://shop.example.com/cb",
			},
		},
		{
			name: "create invoice with explicit store and options",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Invoices().Create(ctx, CreateInvoiceParams{
					Amount:      1000,
					InvoiceID:   "ORD-002",
					CallbackURL: "https://shop.example.com/cb",
					StoreID:     int64Ptr(5),
					ReturnURL:   "https://shop.example.com/done",
					Lifetime:    900,
					OFD:         []map[string]any{{"qty": 1, "name": "Tea"}},
					Extra:       map[string]any{"lang": "uz"},
				})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/invoice",
			wantBody: map[string]any{
				"amount":       float64(1000),
				"store_id":     float64(5),
				"invoice_id":   "ORD-002",
				"callback_url": "https://shop.example.com/cb",
				"return_url":   "https://shop.example.com/done",
				"lifetime":     float64(900),
				"ofd":          []any{map[string]any{"qty": float64(1), "name": "Tea"}},
				"lang":         "uz",
			},
		},
		{
			name:       "retrieve invoice",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Invoices().Retrieve(ctx, "inv-1") },
			wantMethod: http.MethodGet,
			wantPath:   "/invoice/inv-1",
		},
		{
			name:       "cancel invoice escapes the ID",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Invoices().Cancel(ctx, "a/b") },
			wantMethod: http.MethodDelete,
			wantPath:   "/invoice/a%2Fb",
		},
		{
			name: "quick pay",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Invoices().QuickPay(ctx, "inv-1", "payme")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/invoice/quick-pay",
			wantBody:   map[string]any{"invoice_id": "inv-1", "service": "payme"},
		},
		{
			name: "payment by token",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payments().CreateByToken(ctx, "card-tok", PaymentParams{Amount: 2500, InvoiceID: "ORD-3"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/token",
			wantBody: map[string]any{
				"amount":     float64(2500),
				"store_id":   float64(77),
				"invoice_id": "ORD-3",
				"card":       map[string]any{"token": "card-tok"},
			},
		},
		{
			name: "payment by card",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payments().CreateByCard(ctx, "8600123412341234", "2812", PaymentParams{
					Amount:      2500,
					InvoiceID:   "ORD-4",
					CallbackURL: "https://shop.example.com/cb",
				})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/card",
			wantBody: map[string]any{
				"amount":       float64(2500),
				"store_id":     float64(77),
				"invoice_id":   "ORD-4",
				"callback_url": "https://shop.example.com/cb",
				"card":         map[string]any{"number": "8600123412341234", "expiry": "2812"},
			},
		},
		{
			name: "split payment",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payments().CreateSplit(ctx, "card-tok", []SplitRecipient{
					{Type: "account", Amount: 400, Recipient: "20208000900100001001"},
					{Type: "card", Amount: 600, Details: "fee", Recipient: "8600123412341234"},
				}, PaymentParams{Amount: 1000, InvoiceID: "ORD-5"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/split",
			wantBody: map[string]any{
				"amount":     float64(1000),
				"store_id":   float64(77),
				"invoice_id": "ORD-5",
				"card":       map[string]any{"token": "card-tok"},
				"split": []any{
					map[string]any{"type": "account", "amount": float64(400), "recipient": "20208000900100001001"},
					map[string]any{"type": "card", "amount": float64(600), "details": "fee", "recipient": "8600123412341234"},
				},
			},
		},
		{
			name: "wallet payment",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payments().CreateWallet(ctx, "click", PaymentParams{Amount: 100, InvoiceID: "ORD-6"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/app",
			wantBody: map[string]any{
				"amount":     float64(100),
				"store_id":   float64(77),
				"invoice_id": "ORD-6",
				"service":    "click",
			},
		},
		{
			name:       "confirm payment with OTP",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payments().Confirm(ctx, "p-1", "123456") },
			wantMethod: http.MethodPost,
			wantPath:   "/payment/p-1/confirm",
			wantBody:   map[string]any{"code": "123456"},
		},
		{
			name:       "confirm payment without OTP",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payments().Confirm(ctx, "p-1", "") },
			wantMethod: http.MethodPost,
			wantPath:   "/payment/p-1/confirm",
			wantBody:   map[string]any{},
		},
		{
			name:       "retrieve payment",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payments().Retrieve(ctx, "p-1") },
			wantMethod: http.MethodGet,
			wantPath:   "/payment/p-1",
		},
		{
			name:       "refund payment",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payments().Refund(ctx, "p-1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/payment/p-1",
		},
		{
			name:       "partial refund",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payments().PartialRefund(ctx, "p-1", 300) },
			wantMethod: http.MethodPost,
			wantPath:   "/payment/p-1/refund/partial",
			wantBody:   map[string]any{"amount": float64(300)},
		},
		{
			name: "fiscal link",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payments().SendFiscalLink(ctx, "p-1", "https://ofd.soliq.uz/check?t=1")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payment/p-1/fiscal",
			wantBody:   map[string]any{"fiscal_url": "https://ofd.soliq.uz/check?t=1"},
		},
		{
			name: "card binding link",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Cards().CreateBindingLink(ctx, map[string]any{"redirect_url": "https://shop.example.com/cards"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/card/bind/session",
			wantBody:   map[string]any{"redirect_url": "https://shop.example.com/cards"},
		},
		{
			name:       "card binding status",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Cards().BindingStatus(ctx, "sess-1") },
			wantMethod: http.MethodGet,
			wantPath:   "/card/bind/status/sess-1",
		},
		{
			name:       "add card",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Cards().Add(ctx, "8600123412341234", "2812") },
			wantMethod: http.MethodPost,
			wantPath:   "/card/add",
			wantBody:   map[string]any{"number": "8600123412341234", "expiry": "2812"},
		},
		{
			name: "confirm card binding",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Cards().ConfirmBinding(ctx, "111111", map[string]any{"session_id": "sess-1"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/card/bind/confirm",
			wantBody:   map[string]any{"code": "111111", "session_id": "sess-1"},
		},
		{
			name:       "retrieve card",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Cards().Retrieve(ctx, "card-tok") },
			wantMethod: http.MethodGet,
			wantPath:   "/card/card-tok",
		},
		{
			name:       "check card",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Cards().Check(ctx, "8600123412341234") },
			wantMethod: http.MethodGet,
			wantPath:   "/card/check/8600123412341234",
		},
		{
			name: "verify PINFL",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Cards().VerifyPINFL(ctx, "card-tok", "12345678901234")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/card/verify/pinfl",
			wantBody:   map[string]any{"token": "card-tok", "pinfl": "12345678901234"},
		},
		{
			name:       "revoke card",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Cards().Revoke(ctx, "card-tok") },
			wantMethod: http.MethodDelete,
			wantPath:   "/card/card-tok",
		},
		{
			name: "create hold",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Holds().Create(ctx, CreateHoldParams{CardToken: "card-tok", Amount: 9000, InvoiceID: "H-1"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/hold",
			wantBody: map[string]any{
				"card":       map[string]any{"token": "card-tok"},
				"amount":     float64(9000),
				"store_id":   float64(77),
				"invoice_id": "H-1",
			},
		},
		{
			name:       "confirm hold",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Holds().Confirm(ctx, "h-1", "222222") },
			wantMethod: http.MethodPost,
			wantPath:   "/hold/h-1/confirm",
			wantBody:   map[string]any{"code": "222222"},
		},
		{
			name:       "partial capture",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Holds().Capture(ctx, "h-1", 4000) },
			wantMethod: http.MethodPost,
			wantPath:   "/hold/h-1/charge",
			wantBody:   map[string]any{"amount": float64(4000)},
		},
		{
			name:       "full capture",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Holds().Capture(ctx, "h-1", 0) },
			wantMethod: http.MethodPost,
			wantPath:   "/hold/h-1/charge",
			wantBody:   map[string]any{},
		},
		{
			name:       "retrieve hold",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Holds().Retrieve(ctx, "h-1") },
			wantMethod: http.MethodGet,
			wantPath:   "/hold/h-1",
		},
		{
			name:       "cancel hold",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Holds().Cancel(ctx, "h-1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/hold/h-1",
		},
		{
			name: "create payout",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Payouts().Create(ctx, "8600123412341234", 150000, map[string]any{"invoice_id": "PO-1"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/payout",
			wantBody:   map[string]any{"card_number": "8600123412341234", "amount": float64(150000), "invoice_id": "PO-1"},
		},
		{
			name:       "confirm payout",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payouts().Confirm(ctx, "po-1") },
			wantMethod: http.MethodPost,
			wantPath:   "/payout/po-1/confirm",
			wantBody:   map[string]any{},
		},
		{
			name:       "retrieve payout",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Payouts().Retrieve(ctx, "po-1") },
			wantMethod: http.MethodGet,
			wantPath:   "/payout/po-1",
		},
		{
			name:       "application info",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Registry().ApplicationInfo(ctx) },
			wantMethod: http.MethodGet,
			wantPath:   "/app/info",
		},
		{
			name:       "merchant details",
			call:       func(ctx context.Context, c *Client) (*Response, error) { return c.Registry().MerchantDetails(ctx) },
			wantMethod: http.MethodGet,
			wantPath:   "/merchant/details",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &requestRecorder{}
			api := newFakeAPI(t, rec.handle)
			c := newStoreClient(t, api.server.URL, 77)

			resp, err := tt.call(context.Background(), c)
			require.NoError(t, err)
			assert.True(t, resp.IsSuccess())

			got := rec.request()
			assert.Equal(t, tt.wantMethod, got.method)
			assert.Equal(t, tt.wantPath, got.path)
			assert.Equal(t, tt.wantBody, got.body)
		})
	}
}

func TestRegistry_Filters(t *testing.T) {
	t.Parallel()

	rec := &requestRecorder{}
	api := newFakeAPI(t, rec.handle)
	c := newStoreClient(t, api.server.URL, 77)

	_, err := c.Registry().Payments(context.Background(), map[string]string{
		"date_from": "2026-01-01",
		"date_to":   "2026-01-31",
		"status":    "success",
	})
	require.NoError(t, err)

	got := rec.request()
	assert.Equal(t, "/payments/registry", got.path)
	assert.Equal(t, "2026-01-01", got.query.Get("date_from"))
	assert.Equal(t, "2026-01-31", got.query.Get("date_to"))
	assert.Equal(t, "success", got.query.Get("status"))

	_, err = c.Registry().Payouts(context.Background(), nil)
	require.NoError(t, err)

	got = rec.request()
	assert.Equal(t, "/payout/history", got.path)
	assert.Empty(t, got.query)
}

func TestStoreID_OmittedWithoutDefault(t *testing.T) {
	t.Parallel()

	rec := &requestRecorder{}
	api := newFakeAPI(t, rec.handle)
	c := newTestClient(t, api.server.URL)

	_, err := c.Invoices().Create(context.Background(), CreateInvoiceParams{
		Amount:      100,
		InvoiceID:   "ORD-9",
		CallbackURL: "https://shop.example.com/cb",
	})
	require.NoError(t, err)

	assert.NotContains(t, rec.request().body, "store_id")
}

func TestNewBody(t *testing.T) {
	t.Parallel()

	got := newBody(
		map[string]any{"amount": int64(5), "note": nil},
		map[string]any{"amount": int64(6), "extra": "x", "skip": nil},
	)

	assert.Equal(t, map[string]any{"amount": int64(6), "extra": "x"}, got)
}
