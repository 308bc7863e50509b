package client

import (
	"encoding/json"
	"fmt"
)

// Response is a completed, successful API call. It is never returned for a
// non-2xx status; those produce an [*Error] instead.
type Response struct {
	HTTPStatus int
	Body       map[string]any
	Headers    map[string]string
}

// IsSuccess reports whether the envelope's success field is literally true.
func (r *Response) IsSuccess() bool {
	success, ok := r.Body["success"].(bool)
	return ok && success
}

// Data returns the envelope's data field.
func (r *Response) Data() any {
	return r.Body["data"]
}

// ErrorCode returns error.code from the envelope, if present.
func (r *Response) ErrorCode() string {
	code, _ := envelopeError(r.Body)
	return code
}

// ErrorDetails returns error.details from the envelope, if present.
func (r *Response) ErrorDetails() string {
	_, details := envelopeError(r.Body)
	return details
}

// Get returns a field of the data object, or nil when data is not an object.
func (r *Response) Get(key string) any {
	data, ok := r.Data().(map[string]any)
	if !ok {
		return nil
	}
	return data[key]
}

// DecodeData decodes the envelope's data field into v.
func (r *Response) DecodeData(v any) error {
	raw, err := json.Marshal(r.Data())
	if err != nil {
		return fmt.Errorf("failed to encode response data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// parseBody decodes a JSON body. Multicard answers with an object envelope;
// any other JSON value is kept under "value", and bodies that are not JSON
// at all (HTML error pages, empty bodies) fall back to {"raw": text}.
func parseBody(raw []byte) map[string]any {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	if body, ok := decoded.(map[string]any); ok {
		return body
	}
	return map[string]any{"value": decoded}
}
