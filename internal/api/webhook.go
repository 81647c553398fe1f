package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/listingdesk/backend/internal/webhook"
)

type webhookResponse struct {
	Success bool `json:"success"`
	webhook.Result
	Timestamp time.Time `json:"timestamp"`
}

// handleClickFunnelsWebhook processes a purchase event. ClickFunnels
// retries on non-2xx, so only a payload without a contact email earns a
// 4xx; everything else that goes wrong is a 500 and will be redelivered.
func (a *API) handleClickFunnelsWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhook.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid webhook payload", err.Error())
		return
	}

	result, err := a.processor.Process(r.Context(), payload)
	if err != nil {
		if errors.Is(err, webhook.ErrMissingEmail) {
			writeError(w, http.StatusBadRequest, "Missing contact email", err.Error())
			return
		}
		a.log.ErrorContext(r.Context(), "webhook processing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Webhook processing failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Success:   true,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
}

func (a *API) handleWebhookHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "ClickFunnels webhook endpoint is reachable",
		"timestamp": time.Now().UTC(),
	})
}
