package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/application/services"
	"github.com/artilheiro/store-backend/internal/interfaces/rest"
)

type createPaymentRequest struct {
	PaymentMethodID string        `json:"paymentMethodId"`
	Token           string        `json:"token"`
	Installments    int           `json:"installments"`
	IssuerID        string        `json:"issuerId"`
	PayerEmail      string        `json:"payerEmail"`
	IdentType       string        `json:"identificationType"`
	IdentNumber     string        `json:"identificationNumber"`
	Address         *payerAddress `json:"address"`
}

type payerAddress struct {
	StreetName   string `json:"streetName"`
	StreetNumber string `json:"streetNumber"`
	ZipCode      string `json:"zipCode"`
	City         string `json:"city"`
	FederalUnit  string `json:"federalUnit"`
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.PathValue("orderNumber")

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid request body"), h.logger)
		return
	}

	svcReq := services.PaymentRequest{
		PaymentMethodID: req.PaymentMethodID,
		Token:           req.Token,
		Installments:    req.Installments,
		IssuerID:        req.IssuerID,
		PayerEmail:      req.PayerEmail,
		IdentType:       req.IdentType,
		IdentNumber:     req.IdentNumber,
	}
	if req.Address != nil {
		svcReq.Address = &application.PayerAddress{
			StreetName:   req.Address.StreetName,
			StreetNumber: req.Address.StreetNumber,
			ZipCode:      req.Address.ZipCode,
			City:         req.Address.City,
			FederalUnit:  req.Address.FederalUnit,
		}
	}

	result, err := h.paymentService.CreatePaymentForOrder(r.Context(), orderNumber, svcReq)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

type syncPaymentResponse struct {
	Updated     bool   `json:"updated"`
	OrderNumber string `json:"orderNumber"`
}

func (h *Handlers) SyncPayment(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.PathValue("orderNumber")
	paymentID := r.URL.Query().Get("paymentId")
	if paymentID == "" {
		rest.WriteError(w, application.NewInvalidArgumentError("paymentId query parameter is required"), h.logger)
		return
	}

	updated, err := h.reconcile.SyncPayment(r.Context(), orderNumber, paymentID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, syncPaymentResponse{
		Updated:     updated,
		OrderNumber: orderNumber,
	})
}
