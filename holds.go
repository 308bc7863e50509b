package client

import (
	"context"
)

// Holds manages pre-authorizations: funds blocked on a card and captured
// later.
type Holds struct {
	client *Client
}

type CreateHoldParams struct {
	CardToken string
	Amount    int64
	InvoiceID string
	StoreID   *int64
	Extra     map[string]any
}

func (s *Holds) Create(ctx context.Context, p CreateHoldParams) (*Response, error) {
	return s.client.Post(ctx, "/hold", newBody(map[string]any{
		"card":       map[string]any{"token": p.CardToken},
		"amount":     p.Amount,
		"store_id":   s.client.storeID(p.StoreID),
		"invoice_id": p.InvoiceID,
	}, p.Extra))
}

// Confirm blocks the funds, submitting the SMS code when otpCode is set.
func (s *Holds) Confirm(ctx context.Context, holdID, otpCode string) (*Response, error) {
	return s.client.Post(ctx, "/hold/"+pathSegment(holdID)+"/confirm", newBody(map[string]any{
		"code": optionalString(otpCode),
	}, nil))
}

// Capture debits held funds. A zero amount captures the full hold.
func (s *Holds) Capture(ctx context.Context, holdID string, amount int64) (*Response, error) {
	return s.client.Post(ctx, "/hold/"+pathSegment(holdID)+"/charge", newBody(map[string]any{
		"amount": optionalInt(amount),
	}, nil))
}

func (s *Holds) Retrieve(ctx context.Context, holdID string) (*Response, error) {
	return s.client.Get(ctx, "/hold/"+pathSegment(holdID), nil)
}

// Cancel releases the blocked funds.
func (s *Holds) Cancel(ctx context.Context, holdID string) (*Response, error) {
	return s.client.Delete(ctx, "/hold/"+pathSegment(holdID), nil)
}
