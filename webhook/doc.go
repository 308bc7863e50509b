// Package webhook verifies and handles Multicard payment callbacks.
//
// Multicard signs every callback with
//
//	md5(store_id + invoice_id + amount + secret)
//
// where amount is the integer amount in tiyin. [Verify] recomputes the
// signature and compares it in constant time; [NewHandler] wraps it in an
// [http.Handler] that rejects forged callbacks before they reach your code.
//
//	h := webhook.NewHandler(secret, func(ctx context.Context, cb *webhook.Callback) error {
//	    return orders.MarkPaid(ctx, cb.InvoiceID)
//	}, slog.Default())
//	http.Handle("/multicard/callback", h)
package webhook
