package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/application/services"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/artilheiro/store-backend/internal/interfaces/rest"
	"github.com/google/uuid"
)

type createOrderRequest struct {
	CustomerName string         `json:"customerName"`
	Email        string         `json:"email"`
	CPF          string         `json:"cpf"`
	Address      domain.Address `json:"address"`
	Items        []orderItem    `json:"items"`
}

type orderItem struct {
	ProductID      string `json:"productId"`
	Size           string `json:"size"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type orderResponse struct {
	ID           string            `json:"id"`
	OrderNumber  string            `json:"orderNumber"`
	CustomerName string            `json:"customerName"`
	Email        string            `json:"email"`
	Address      domain.Address    `json:"address"`
	Items        []domain.LineItem `json:"items"`
	TotalCents   int64             `json:"totalCents"`
	Status       string            `json:"status"`
	PaymentID    *string           `json:"paymentId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	ShippedAt    *time.Time        `json:"shippedAt,omitempty"`
	Carrier      *string           `json:"carrier,omitempty"`
	TrackingCode *string           `json:"trackingCode,omitempty"`
	TrackingURL  *string           `json:"trackingUrl,omitempty"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Address:      o.Address,
		Items:        o.Items,
		TotalCents:   o.TotalCents,
		Status:       string(o.Status),
		PaymentID:    o.PaymentID,
		CreatedAt:    o.CreatedAt,
		ShippedAt:    o.ShippedAt,
		Carrier:      o.Carrier,
		TrackingCode: o.TrackingCode,
		TrackingURL:  o.TrackingURL,
	}
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid request body"), h.logger)
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID:      it.ProductID,
			Size:           it.Size,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}

	order, err := h.orderService.Create(r.Context(), services.CreateOrderInput{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		CPF:          req.CPF,
		Address:      req.Address,
		Items:        items,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handlers) LookupOrder(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	code := r.URL.Query().Get("code")

	order, err := h.orderService.Lookup(r.Context(), email, code)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

type updateOrderRequest struct {
	Status       string  `json:"status"`
	Carrier      *string `json:"carrier"`
	TrackingCode *string `json:"trackingCode"`
	TrackingURL  *string `json:"trackingUrl"`
}

func (h *Handlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid order id"), h.logger)
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid request body"), h.logger)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, services.UpdateOrderInput{
		Status:       req.Status,
		Carrier:      req.Carrier,
		TrackingCode: req.TrackingCode,
		TrackingURL:  req.TrackingURL,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}
