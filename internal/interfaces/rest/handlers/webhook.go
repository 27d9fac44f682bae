package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/infrastructure/mercadopago"
	"github.com/artilheiro/store-backend/internal/interfaces/rest"
)

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// WebhookPost ingests the provider's JSON notification. The contract is
// at-least-once fire-and-forget: the only non-200 answer is an explicit
// signature failure, everything else acknowledges so the provider stops
// retrying.
func (h *Handlers) WebhookPost(w http.ResponseWriter, r *http.Request) {
	var body webhookBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		// malformed payloads are acknowledged, not processed
		h.logger.Warn("webhook body could not be decoded", "error", err)
		rest.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	// The provider signs the id it sends in the data.id query
	// parameter; the body id is the fallback.
	dataID := r.URL.Query().Get("data.id")
	if dataID == "" {
		dataID = body.Data.ID
	}

	if !h.verifySignature(w, r, dataID) {
		return
	}

	h.reconcile.ProcessWebhook(r.Context(), body.Type, dataID)
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// WebhookGet handles the provider's legacy delivery mode, which uses
// query parameters instead of a JSON body.
func (h *Handlers) WebhookGet(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	id := r.URL.Query().Get("id")

	if !h.verifySignature(w, r, id) {
		return
	}

	h.reconcile.ProcessWebhook(r.Context(), topic, id)
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// verifySignature enforces the HMAC check when a webhook secret is
// configured. No secret means verification is disabled, a deployment
// decision rather than a bypass.
func (h *Handlers) verifySignature(w http.ResponseWriter, r *http.Request, dataID string) bool {
	secret := h.mpConfig.WebhookSecret
	if secret == "" {
		return true
	}

	ok := mercadopago.ValidateSignature(
		secret,
		dataID,
		r.Header.Get("x-request-id"),
		r.Header.Get("x-signature"),
	)
	if !ok {
		h.metrics.WebhookEvent("signature_rejected")
		h.logger.Warn("webhook signature rejected",
			"data_id", dataID,
			"request_id", r.Header.Get("x-request-id"))
		rest.WriteError(w, application.NewAuthenticationFailedError(), h.logger)
		return false
	}
	return true
}
