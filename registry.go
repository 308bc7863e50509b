package client

import (
	"context"
)

// Registry queries payment and payout history and account details.
type Registry struct {
	client *Client
}

// Payments lists processed payments. Filters (date_from, date_to, status,
// ...) are sent as query parameters.
func (s *Registry) Payments(ctx context.Context, filters map[string]string) (*Response, error) {
	return s.client.Get(ctx, "/payments/registry", filterValues(filters))
}

func (s *Registry) Payouts(ctx context.Context, filters map[string]string) (*Response, error) {
	return s.client.Get(ctx, "/payout/history", filterValues(filters))
}

func (s *Registry) ApplicationInfo(ctx context.Context) (*Response, error) {
	return s.client.Get(ctx, "/app/info", nil)
}

// MerchantDetails returns the merchant's banking details.
func (s *Registry) MerchantDetails(ctx context.Context) (*Response, error) {
	return s.client.Get(ctx, "/merchant/details", nil)
}
