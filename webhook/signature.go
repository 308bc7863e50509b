package webhook

import (
	"crypto/md5" //nolint:gosec // the upstream signing scheme is MD5
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"
)

// Callback holds the signed fields of a Multicard callback.
type Callback struct {
	StoreID   string
	InvoiceID string
	Amount    string
	Sign      string

	// Raw is the decoded callback body when it was built by ParseCallback.
	Raw map[string]any
}

// trailingZeroDecimals matches ".0", ".00", ".000", ... at the end of an amount.
var trailingZeroDecimals = regexp.MustCompile(`\.0+$`)

// Verify reports whether cb.Sign is the signature of cb under secret.
// The hex digests are compared case-insensitively and in constant time.
func Verify(cb Callback, secret string) bool {
	if cb.Sign == "" {
		return false
	}

	expected := Sign(cb, secret)
	given := strings.ToLower(cb.Sign)

	// ConstantTimeCompare returns immediately on a length mismatch and
	// otherwise inspects every byte.
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}

// Sign returns the lower-case hex signature Multicard would send for cb.
// cb.Sign is ignored.
func Sign(cb Callback, secret string) string {
	sum := md5.Sum([]byte(cb.StoreID + cb.InvoiceID + normalizeAmount(cb.Amount) + secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// normalizeAmount strips a trailing ".0", ".00", ... Amounts are integer
// tiyin, so the signer uses the integer form. Non-zero decimals such as
// "500000.5" are left untouched.
func normalizeAmount(amount string) string {
	return trailingZeroDecimals.ReplaceAllString(amount, "")
}
