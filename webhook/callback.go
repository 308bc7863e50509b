package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMissingField is returned by ParseCallback when a signed field is absent.
var ErrMissingField = errors.New("missing callback field")

// ParseCallback decodes a JSON callback body. store_id and amount may be
// JSON numbers or strings; numbers keep their literal text so that the
// signature is computed over what Multicard sent.
func ParseCallback(body []byte) (*Callback, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse callback: %w", err)
	}

	cb := &Callback{Raw: raw}

	var err error
	if cb.StoreID, err = field(raw, "store_id"); err != nil {
		return nil, err
	}
	if cb.InvoiceID, err = field(raw, "invoice_id"); err != nil {
		return nil, err
	}
	if cb.Amount, err = field(raw, "amount"); err != nil {
		return nil, err
	}
	if cb.Sign, err = field(raw, "sign"); err != nil {
		return nil, err
	}

	return cb, nil
}

func field(raw map[string]any, key string) (string, error) {
	switch v := raw[key].(type) {
	case nil:
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("callback field %s has unexpected type %T", key, v)
	}
}
