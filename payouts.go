package client

import (
	"context"
)

// Payouts sends money to cards.
type Payouts struct {
	client *Client
}

func (s *Payouts) Create(ctx context.Context, cardNumber string, amount int64, extra map[string]any) (*Response, error) {
	return s.client.Post(ctx, "/payout", newBody(map[string]any{
		"card_number": cardNumber,
		"amount":      amount,
	}, extra))
}

func (s *Payouts) Confirm(ctx context.Context, payoutID string) (*Response, error) {
	return s.client.Post(ctx, "/payout/"+pathSegment(payoutID)+"/confirm", map[string]any{})
}

func (s *Payouts) Retrieve(ctx context.Context, payoutID string) (*Response, error) {
	return s.client.Get(ctx, "/payout/"+pathSegment(payoutID), nil)
}
