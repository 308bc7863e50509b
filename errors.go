package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind identifies the category of an [Error]. Callers branch on the kind
// (or use [errors.Is] with the sentinels below) instead of on Go types.
type ErrorKind string

const (
	KindAPI            ErrorKind = "api_error"
	KindNetwork        ErrorKind = "network_error"
	KindAuthentication ErrorKind = "authentication_error"
	KindValidation     ErrorKind = "validation_error"
	KindInvalidFields  ErrorKind = "invalid_fields"
	KindNotFound       ErrorKind = "not_found"
	KindRateLimit      ErrorKind = "rate_limit"
	KindServer         ErrorKind = "server_error"

	// Business errors, reported by the API in error.code.
	KindCardNotFound      ErrorKind = "card_not_found"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindCardExpired       ErrorKind = "card_expired"
	KindDebitUnknown      ErrorKind = "debit_unknown"
	KindCallbackTimeout   ErrorKind = "callback_timeout"
)

// Sentinel errors for errors.Is() checks
var (
	ErrMissingApplicationID = errors.New("application ID is required")
	ErrMissingSecret        = errors.New("secret is required")
	ErrUnsupportedMethod    = errors.New("unsupported HTTP method")
	ErrInvalidPath          = errors.New("path contains a dot segment")

	ErrAPI               = errors.New("multicard API error")
	ErrNetwork           = errors.New("network error")
	ErrAuthentication    = errors.New("authentication failed")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidFields     = errors.New("invalid fields")
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrServer            = errors.New("server error")
	ErrCardNotFound      = errors.New("card not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCardExpired       = errors.New("card expired")
	ErrDebitUnknown      = errors.New("debit outcome unknown")
	ErrCallbackTimeout   = errors.New("callback timeout")
)

// businessErrorKinds maps Multicard error codes to error kinds.
var businessErrorKinds = map[string]ErrorKind{
	"ERROR_CARD_NOT_FOUND":     KindCardNotFound,
	"ERROR_INSUFFICIENT_FUNDS": KindInsufficientFunds,
	"ERROR_CARD_EXPIRED":       KindCardExpired,
	"ERROR_DEBIT_UNKNOWN":      KindDebitUnknown,
	"ERROR_CALLBACK_TIMEOUT":   KindCallbackTimeout,
	"ERROR_FIELDS":             KindInvalidFields,
}

var kindSentinels = map[ErrorKind]error{
	KindAPI:               ErrAPI,
	KindNetwork:           ErrNetwork,
	KindAuthentication:    ErrAuthentication,
	KindValidation:        ErrValidation,
	KindInvalidFields:     ErrInvalidFields,
	KindNotFound:          ErrNotFound,
	KindRateLimit:         ErrRateLimited,
	KindServer:            ErrServer,
	KindCardNotFound:      ErrCardNotFound,
	KindInsufficientFunds: ErrInsufficientFunds,
	KindCardExpired:       ErrCardExpired,
	KindDebitUnknown:      ErrDebitUnknown,
	KindCallbackTimeout:   ErrCallbackTimeout,
}

// Error is returned for every failed API call. The fields carry enough
// information to branch on a business failure without re-parsing the body.
type Error struct {
	Kind         ErrorKind
	HTTPStatus   int
	ErrorCode    string
	ErrorDetails string
	ResponseBody map[string]any
	Message      string
	Err          error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorDetails
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "Multicard API error"
	}

	switch {
	case e.HTTPStatus != 0 && e.ErrorCode != "":
		return fmt.Sprintf("%s (HTTP %d, %s): %s", e.Kind, e.HTTPStatus, e.ErrorCode, msg)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.HTTPStatus, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching. Card and field
// errors are refinements of validation errors and also match ErrValidation.
func (e *Error) Is(target error) bool {
	if sentinel, ok := kindSentinels[e.Kind]; ok && target == sentinel {
		return true
	}
	if target == ErrValidation {
		switch e.Kind {
		case KindInvalidFields, KindCardNotFound, KindInsufficientFunds, KindCardExpired:
			return true
		}
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or an empty
// kind if there is none.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsRetryable reports whether err is a transient failure that is safe to
// retry for idempotent calls: network errors (including timeouts), rate
// limiting and 5xx responses. Cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch KindOf(err) {
	case KindNetwork, KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// classifyError builds the error for a non-2xx response. A recognised
// business code wins over the HTTP status.
func classifyError(status int, body map[string]any) *Error {
	code, details := envelopeError(body)

	kind, ok := businessErrorKinds[code]
	if !ok {
		kind = kindForStatus(status)
	}

	return &Error{
		Kind:         kind,
		HTTPStatus:   status,
		ErrorCode:    code,
		ErrorDetails: details,
		ResponseBody: body,
	}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401:
		return KindAuthentication
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimit
	case status >= 400 && status <= 499:
		return KindValidation
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindAPI
	}
}

// envelopeError extracts error.code and error.details from a response body.
// Non-string details are kept as their JSON encoding.
func envelopeError(body map[string]any) (code, details string) {
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		return "", ""
	}

	code, _ = errObj["code"].(string)

	switch d := errObj["details"].(type) {
	case nil:
	case string:
		details = d
	default:
		if b, err := json.Marshal(d); err == nil {
			details = string(b)
		}
	}

	return code, details
}
