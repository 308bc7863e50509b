package client

import (
	"net/url"
	"strings"
)

// pathSegment escapes a caller-supplied value for use as a single path
// segment, so IDs containing "/" cannot change the endpoint. "." and ".."
// pass through unchanged; [Client.Request] rejects them.
func pathSegment(value string) string {
	return url.PathEscape(value)
}

// hasDotSegment reports whether p has a "." or ".." segment, which
// proxies would resolve to a different endpoint.
func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// storeID returns the store ID for a request body: the explicit value if
// given, otherwise the configured default, otherwise nil.
func (c *Client) storeID(explicit *int64) any {
	if explicit != nil {
		return *explicit
	}
	if c.config.StoreID != nil {
		return *c.config.StoreID
	}
	return nil
}

// newBody builds a request body. Nil values are dropped; extra fields are
// applied last and may override named ones.
func newBody(fields map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+len(extra))
	for k, v := range fields {
		if v != nil {
			out[k] = v
		}
	}
	for k, v := range extra {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

// optionalItems keeps the slice only when it has elements.
func optionalItems[T any](items []T) any {
	if len(items) == 0 {
		return nil
	}
	return items
}

// filterValues converts registry filters into query parameters.
func filterValues(filters map[string]string) url.Values {
	if len(filters) == 0 {
		return nil
	}
	values := make(url.Values, len(filters))
	for k, v := range filters {
		values.Set(k, v)
	}
	return values
}
