package client

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		want       string
		mustNotHas string
	}{
		{
			name:  "no query",
			input: "https://api.multicard.uz/payment/p-1",
			want:  "https://api.multicard.uz/payment/p-1",
		},
		{
			name:  "harmless query",
			input: "https://api.multicard.uz/payments/registry?status=success",
			want:  "https://api.multicard.uz/payments/registry?status=success",
		},
		{
			name:       "token redacted",
			input:      "https://api.multicard.uz/card?token=abc123",
			mustNotHas: "abc123",
		},
		{
			name:       "card number redacted",
			input:      "https://api.multicard.uz/card?card_number=8600123412341234&status=ok",
			mustNotHas: "8600123412341234",
		},
		{
			name:       "mixed case parameter",
			input:      "https://api.multicard.uz/x?Client_Secret=hunter2",
			mustNotHas: "hunter2",
		},
		{
			name:  "card number in path",
			input: "https://api.multicard.uz/card/check/8600123412341234",
			want:  "https://api.multicard.uz/card/check/[REDACTED]",
		},
		{
			name:  "card token in path",
			input: "https://api.multicard.uz/card/tok-secret?x=1",
			want:  "https://api.multicard.uz/card/[REDACTED]?x=1",
		},
		{
			name:  "binding status kept",
			input: "https://api.multicard.uz/card/bind/status/sess-1",
			want:  "https://api.multicard.uz/card/bind/status/sess-1",
		},
		{
			name:  "unparseable",
			input: "http://[::1",
			want:  "[unparseable URL]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeURL(tt.input)

			if tt.want != "" && got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if tt.mustNotHas != "" {
				if strings.Contains(got, tt.mustNotHas) {
					t.Errorf("expected %q to be redacted, got %q", tt.mustNotHas, got)
				}
				if !strings.Contains(got, "REDACTED") {
					t.Errorf("expected redaction marker, got %q", got)
				}
			}
		})
	}
}

func TestRedactPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/card/check/8600123412341234", "/card/check/[REDACTED]"},
		{"/card/tok-1", "/card/[REDACTED]"},
		{"/card/add", "/card/add"},
		{"/card/bind/session", "/card/bind/session"},
		{"/card/verify/pinfl", "/card/verify/pinfl"},
		{"/payment/p-1", "/payment/p-1"},
		{"/cards/tok-1", "/cards/tok-1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := redactPath(tt.path); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	target := "http://127.0.0.1:1/card/check/8600123412341234"
	err := newNetworkError(errors.New(`Get "` + target + `": dial tcp 127.0.0.1:1: connect: connection refused`))

	got := sanitizeError(err, target)

	if strings.Contains(got, "8600123412341234") {
		t.Errorf("card number leaked: %s", got)
	}
	if !strings.Contains(got, "/card/check/[REDACTED]") || !strings.Contains(got, "connection refused") {
		t.Errorf("unexpected message: %s", got)
	}
}
