// Package client provides an HTTP client for the Multicard payment API
// (invoices, card binding, holds, payments, payouts and registry queries).
//
// The client wraps [github.com/go-resty/resty/v2] with bearer-token
// management, method-aware retries, typed errors and pluggable logging.
//
// # Basic Usage
//
//	cfg := client.NewConfig(
//	    client.WithApplicationID(os.Getenv("MULTICARD_APPLICATION_ID")),
//	    client.WithSecret(os.Getenv("MULTICARD_SECRET")),
//	    client.WithStoreID(123),
//	)
//
//	c, err := client.New(cfg, client.WithRetryCount(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Invoices().Create(ctx, client.CreateInvoiceParams{
//	    Amount:      500000,
//	    InvoiceID:   "ORD-001",
//	    CallbackURL: "https://shop.example.com/multicard/callback",
//	})
//
// # Configuration
//
// Credentials, base URL, timeouts, logger and the default store ID live in
// an immutable [Config]. [Config.Merge] derives a new Config; an option that
// is passed always wins, even when it sets a zero value (for example
// [WithTimeout](0) or [WithoutStoreID]). There is no global configuration.
//
// Retry and transport tuning is supplied as [Option] functions passed to
// [New]. Invalid values are silently ignored and the default is retained;
// all options are validated when [New] is called.
//
// # Authentication
//
// The client obtains a bearer token from /auth on first use and reuses it
// for 23 hours. Token refresh is serialized, so concurrent callers share a
// single refresh. If a call fails with HTTP 401 the token is discarded and
// the call is repeated once with a new token.
//
// # Retry Behaviour
//
// GET and DELETE calls are retried on network errors, HTTP 429 and 5xx
// responses, with exponential backoff ([DefaultRetryPolicy]). POST calls are
// never retried, because repeating a payment could charge a card twice.
//
// # Errors
//
// Every failed call returns an [*Error] carrying the [ErrorKind], HTTP
// status, Multicard error code and details, and the raw response body.
// Business error codes (ERROR_CARD_NOT_FOUND, ERROR_INSUFFICIENT_FUNDS, ...)
// take precedence over the HTTP status. Use errors.Is with the sentinels:
//
//	if errors.Is(err, client.ErrInsufficientFunds) {
//	    // ask for another card
//	}
//
// # Logging
//
// Implement [RequestLogger] (or use [NewSlogLogger]) and supply it via
// [WithLogger]. The client logs the method and URL of each request and the
// response status; tokens and secrets are never logged.
//
// # Webhooks
//
// Callback signatures are verified by package
// github.com/peteraglen/multicard-go-client/webhook.
//
// # Command Line
//
// cmd/multicard is a small CLI over this package. It keeps named profiles
// in a YAML file and secrets in the system keyring:
//
//	multicard login --application-id my-app --store-id 123
//	multicard invoices get 3fa85f64 --jq .data.status
package client
