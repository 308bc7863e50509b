package client

import (
	"context"
)

// Invoices manages hosted checkout invoices.
type Invoices struct {
	client *Client
}

// CreateInvoiceParams describes a new invoice. Amounts are in tiyin.
type CreateInvoiceParams struct {
	Amount      int64
	InvoiceID   string
	CallbackURL string
	// StoreID falls back to Config.StoreID when nil.
	StoreID     *int64
	ReturnURL   string
	Description string
	// Lifetime of the checkout page in seconds; zero uses the API default.
	Lifetime int64
	OFD      []map[string]any
	Extra    map[string]any
}

// Create creates an invoice and returns the checkout URL in its data.
func (s *Invoices) Create(ctx context.Context, p CreateInvoiceParams) (*Response, error) {
	return s.client.Post(ctx, "/payment/invoice", newBody(map[string]any{
		"amount":       p.Amount,
		"store_id":     s.client.storeID(p.StoreID),
		"invoice_id":   p.InvoiceID,
		"callback_url": p.CallbackURL,
		"return_url":   optionalString(p.ReturnURL),
		"description":  optionalString(p.Description),
		"lifetime":     optionalInt(p.Lifetime),
		"ofd":          optionalItems(p.OFD),
	}, p.Extra))
}

func (s *Invoices) Retrieve(ctx context.Context, invoiceID string) (*Response, error) {
	return s.client.Get(ctx, "/invoice/"+pathSegment(invoiceID), nil)
}

// Cancel cancels an unpaid invoice.
func (s *Invoices) Cancel(ctx context.Context, invoiceID string) (*Response, error) {
	return s.client.Delete(ctx, "/invoice/"+pathSegment(invoiceID), nil)
}

// QuickPay generates a payment link for a wallet service (Payme, Click,
// Uzum, ...).
func (s *Invoices) QuickPay(ctx context.Context, invoiceID, service string) (*Response, error) {
	return s.client.Post(ctx, "/invoice/quick-pay", map[string]any{
		"invoice_id": invoiceID,
		"service":    service,
	})
}
