package handlers

import (
	"net/http"

	"github.com/artilheiro/store-backend/internal/interfaces/rest"
)

type publicConfig struct {
	MercadoPagoPublicKey string `json:"mercadoPagoPublicKey"`
}

// GetConfig exposes the provider public key for client-side card
// tokenization. Only public material goes through here.
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, publicConfig{
		MercadoPagoPublicKey: h.mpConfig.PublicKey,
	})
}
