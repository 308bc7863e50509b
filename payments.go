package client

import (
	"context"
)

// Payments creates, confirms and refunds payments.
type Payments struct {
	client *Client
}

// PaymentParams holds the fields shared by every payment method.
// Amounts are in tiyin.
type PaymentParams struct {
	Amount      int64
	InvoiceID   string
	StoreID     *int64
	CallbackURL string
	OFD         []map[string]any
	Extra       map[string]any
}

// SplitRecipient is one share of a split payment.
type SplitRecipient struct {
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Details   string `json:"details,omitempty"`
	Recipient string `json:"recipient"`
}

func (s *Payments) fields(p PaymentParams) map[string]any {
	return map[string]any{
		"amount":       p.Amount,
		"store_id":     s.client.storeID(p.StoreID),
		"invoice_id":   p.InvoiceID,
		"callback_url": optionalString(p.CallbackURL),
		"ofd":          optionalItems(p.OFD),
	}
}

// CreateByToken charges a card saved through card binding.
func (s *Payments) CreateByToken(ctx context.Context, cardToken string, p PaymentParams) (*Response, error) {
	fields := s.fields(p)
	fields["card"] = map[string]any{"token": cardToken}
	return s.client.Post(ctx, "/payment/token", newBody(fields, p.Extra))
}

// CreateByCard charges a card by number and expiry (MMYY). Requires PCI DSS.
func (s *Payments) CreateByCard(ctx context.Context, cardNumber, cardExpiry string, p PaymentParams) (*Response, error) {
	fields := s.fields(p)
	fields["card"] = map[string]any{"number": cardNumber, "expiry": cardExpiry}
	return s.client.Post(ctx, "/payment/card", newBody(fields, p.Extra))
}

// CreateSplit charges a saved card and splits the amount across recipients.
func (s *Payments) CreateSplit(ctx context.Context, cardToken string, split []SplitRecipient, p PaymentParams) (*Response, error) {
	fields := s.fields(p)
	fields["card"] = map[string]any{"token": cardToken}
	fields["split"] = split
	return s.client.Post(ctx, "/payment/split", newBody(fields, p.Extra))
}

// CreateWallet starts a payment through a wallet app.
func (s *Payments) CreateWallet(ctx context.Context, service string, p PaymentParams) (*Response, error) {
	fields := s.fields(p)
	fields["service"] = service
	return s.client.Post(ctx, "/payment/app", newBody(fields, p.Extra))
}

// Confirm confirms a payment, submitting the SMS code when otpCode is set.
func (s *Payments) Confirm(ctx context.Context, paymentID, otpCode string) (*Response, error) {
	return s.client.Post(ctx, "/payment/"+pathSegment(paymentID)+"/confirm", newBody(map[string]any{
		"code": optionalString(otpCode),
	}, nil))
}

func (s *Payments) Retrieve(ctx context.Context, paymentID string) (*Response, error) {
	return s.client.Get(ctx, "/payment/"+pathSegment(paymentID), nil)
}

// Refund fully refunds a payment.
func (s *Payments) Refund(ctx context.Context, paymentID string) (*Response, error) {
	return s.client.Delete(ctx, "/payment/"+pathSegment(paymentID), nil)
}

func (s *Payments) PartialRefund(ctx context.Context, paymentID string, amount int64) (*Response, error) {
	return s.client.Post(ctx, "/payment/"+pathSegment(paymentID)+"/refund/partial", map[string]any{
		"amount": amount,
	})
}

// SendFiscalLink attaches a fiscal receipt URL to a payment.
func (s *Payments) SendFiscalLink(ctx context.Context, paymentID, fiscalURL string) (*Response, error) {
	return s.client.Post(ctx, "/payment/"+pathSegment(paymentID)+"/fiscal", map[string]any{
		"fiscal_url": fiscalURL,
	})
}
