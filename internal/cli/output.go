package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
)

// applyFilter runs a jq expression over v and returns every result.
func applyFilter(ctx context.Context, expression string, v any) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	var results []any
	iter := code.RunWithContext(ctx, v)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			return nil, fmt.Errorf("jq: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}

// writeJSON prints v as indented JSON, or each jq result on its own line
// when filter is set.
func writeJSON(ctx context.Context, w io.Writer, filter string, v any) error {
	if filter == "" {
		return encode(w, v, "  ")
	}

	// gojq only accepts plain JSON values.
	normalized, err := normalize(v)
	if err != nil {
		return err
	}

	results, err := applyFilter(ctx, filter, normalized)
	if err != nil {
		return err
	}

	for _, r := range results {
		if err := encode(w, r, ""); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, v any, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(v)
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode output: %w", err)
	}
	return out, nil
}
