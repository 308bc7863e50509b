package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// maxCallbackSize bounds the callback body read by Handler.
const maxCallbackSize = 1 << 20

// HandlerFunc processes a verified callback. Returning an error makes the
// handler answer 500 so that Multicard retries the delivery.
type HandlerFunc func(ctx context.Context, cb *Callback) error

// Handler is an http.Handler for Multicard callbacks.
type Handler struct {
	secret string
	fn     HandlerFunc
	logger *slog.Logger
}

// NewHandler returns a Handler that verifies callbacks signed with secret
// and passes the valid ones to fn. A nil logger uses slog.Default.
func NewHandler(secret string, fn HandlerFunc, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{secret: secret, fn: fn, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, false, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, false, "failed to read body")
		return
	}

	cb, err := ParseCallback(body)
	if err != nil {
		h.logger.Warn("multicard callback rejected", "reason", "parse", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, false, "invalid callback")
		return
	}

	if !Verify(*cb, h.secret) {
		h.logger.Warn("multicard callback rejected",
			"reason", "signature",
			"invoice_id", cb.InvoiceID,
			"store_id", cb.StoreID,
		)
		writeJSON(w, http.StatusForbidden, false, "invalid signature")
		return
	}

	if err := h.fn(r.Context(), cb); err != nil {
		h.logger.Error("multicard callback handler failed",
			"invoice_id", cb.InvoiceID,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, false, "callback processing failed")
		return
	}

	h.logger.Debug("multicard callback accepted", "invoice_id", cb.InvoiceID)
	writeJSON(w, http.StatusOK, true, "")
}

func writeJSON(w http.ResponseWriter, status int, success bool, message string) {
	resp := map[string]any{"success": success}
	if message != "" {
		resp["message"] = message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
