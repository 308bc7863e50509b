package client

import (
	"context"
)

// Cards handles card binding (tokenization) and card lookups.
type Cards struct {
	client *Client
}

// CreateBindingLink starts a form-based binding session. The response holds
// the binding URL and session ID.
func (s *Cards) CreateBindingLink(ctx context.Context, params map[string]any) (*Response, error) {
	return s.client.Post(ctx, "/card/bind/session", newBody(nil, params))
}

func (s *Cards) BindingStatus(ctx context.Context, sessionID string) (*Response, error) {
	return s.client.Get(ctx, "/card/bind/status/"+pathSegment(sessionID), nil)
}

// Add sends an SMS code for API-based binding. Requires PCI DSS.
func (s *Cards) Add(ctx context.Context, cardNumber, cardExpiry string) (*Response, error) {
	return s.client.Post(ctx, "/card/add", map[string]any{
		"number": cardNumber,
		"expiry": cardExpiry,
	})
}

// ConfirmBinding completes API-based binding with the SMS code.
func (s *Cards) ConfirmBinding(ctx context.Context, otpCode string, params map[string]any) (*Response, error) {
	return s.client.Post(ctx, "/card/bind/confirm", newBody(map[string]any{
		"code": otpCode,
	}, params))
}

func (s *Cards) Retrieve(ctx context.Context, token string) (*Response, error) {
	return s.client.Get(ctx, "/card/"+pathSegment(token), nil)
}

func (s *Cards) Check(ctx context.Context, cardNumber string) (*Response, error) {
	return s.client.Get(ctx, "/card/check/"+pathSegment(cardNumber), nil)
}

// VerifyPINFL checks that the card belongs to the holder of a personal ID.
func (s *Cards) VerifyPINFL(ctx context.Context, token, pinfl string) (*Response, error) {
	return s.client.Post(ctx, "/card/verify/pinfl", map[string]any{
		"token": token,
		"pinfl": pinfl,
	})
}

// Revoke unbinds a card token.
func (s *Cards) Revoke(ctx context.Context, token string) (*Response, error) {
	return s.client.Delete(ctx, "/card/"+pathSegment(token), nil)
}
