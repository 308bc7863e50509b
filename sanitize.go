package client

import (
	"net/url"
	"strings"
)

// sensitiveParams contains query parameter names that are redacted from logs.
// Matched case-insensitively as substrings.
var sensitiveParams = []string{
	"token",
	"secret",
	"password",
	"pinfl",
	"card_number",
	"pan",
}

const redacted = "[REDACTED]"

// sanitizeURL redacts sensitive query parameters and path segments before a
// URL is logged.
func sanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[unparseable URL]"
	}

	if escaped := u.EscapedPath(); redactPath(escaped) != escaped {
		u.RawPath = redactPath(escaped)
		u.Path, _ = url.PathUnescape(u.RawPath)
	}

	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, redacted)
		}
	}

	u.RawQuery = q.Encode()
	return u.String()
}

func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// redactPath hides card numbers and card tokens carried in the path:
// /card/check/{number} and /card/{token}.
func redactPath(p string) string {
	segs := strings.Split(p, "/")
	if len(segs) < 3 || segs[0] != "" || segs[1] != "card" {
		return p
	}

	switch {
	case len(segs) == 4 && segs[2] == "check":
		segs[3] = redacted
	case len(segs) == 3 && segs[2] != "add":
		segs[2] = redacted
	default:
		return p
	}

	return strings.Join(segs, "/")
}

// sanitizeError renders err for a log line, with every occurrence of
// rawURL replaced by its sanitized form.
func sanitizeError(err error, rawURL string) string {
	return strings.ReplaceAll(err.Error(), rawURL, sanitizeURL(rawURL))
}
