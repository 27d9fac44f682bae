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

type productRequest struct {
	Name            string         `json:"name"`
	Team            string         `json:"team"`
	League          string         `json:"league"`
	Category        string         `json:"category"`
	PriceCents      int64          `json:"priceCents"`
	PromoPriceCents *int64         `json:"promoPriceCents"`
	Images          []string       `json:"images"`
	Sizes           map[string]int `json:"sizes"`
	Active          *bool          `json:"active"`
}

type productResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Team            string         `json:"team,omitempty"`
	League          string         `json:"league,omitempty"`
	Category        string         `json:"category,omitempty"`
	PriceCents      int64          `json:"priceCents"`
	PromoPriceCents *int64         `json:"promoPriceCents,omitempty"`
	Images          []string       `json:"images"`
	Sizes           map[string]int `json:"sizes"`
	Active          bool           `json:"active"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Team:            p.Team,
		League:          p.League,
		Category:        p.Category,
		PriceCents:      p.PriceCents,
		PromoPriceCents: p.PromoPriceCents,
		Images:          p.Images,
		Sizes:           p.Sizes,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
	}
}

func (r productRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:            r.Name,
		Team:            r.Team,
		League:          r.League,
		Category:        r.Category,
		PriceCents:      r.PriceCents,
		PromoPriceCents: r.PromoPriceCents,
		Images:          r.Images,
		Sizes:           r.Sizes,
		Active:          r.Active,
	}
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := application.ProductFilter{
		Category:        q.Get("category"),
		Team:            q.Get("team"),
		League:          q.Get("league"),
		Search:          q.Get("search"),
		IncludeInactive: q.Get("includeInactive") == "true",
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	rest.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid product id"), h.logger)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid request body"), h.logger)
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid product id"), h.logger)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid request body"), h.logger)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toInput())
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("invalid product id"), h.logger)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadProductImage accepts a multipart "file" part, stores it and
// returns the public URL to attach to a product.
func (h *Handlers) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 10 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("expected a multipart form with a file part"), h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		rest.WriteError(w, application.NewInvalidArgumentError("file part is required"), h.logger)
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadProductImage(r.Context(), header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
