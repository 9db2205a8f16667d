package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/order-catalog/internal/api/middleware"
	"github.com/example/order-catalog/internal/domain/order"
	"github.com/example/order-catalog/internal/domain/product"
	"github.com/example/order-catalog/internal/metrics"
)

// Handlers exposes the catalog and order operations over HTTP.
type Handlers struct {
	catalog *product.Service
	engine  *order.Engine
	metrics *metrics.ServerMetrics
}

func NewHandlers(catalog *product.Service, engine *order.Engine, m *metrics.ServerMetrics) *Handlers {
	return &Handlers{catalog: catalog, engine: engine, metrics: m}
}

// Product Handlers

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Create(r.Context(), req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Update(r.Context(), id, req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetAll(r.Context())
	if err != nil {
		respondJSONError(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondJSONError(w, "failed to get product", http.StatusInternalServerError)
		return
	}
	if p == nil {
		respondJSONError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Order Handlers

type createOrderRequest struct {
	Items []order.ItemRequest `json:"items"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

type reviseOrderRequest struct {
	Status string              `json:"status"`
	Items  []order.ItemRequest `json:"items,omitempty"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	orderID, err := h.engine.CreateOrder(r.Context(), customerID, req.Items)
	if err != nil {
		h.countRejection(err)
		respondDomainError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersCreated.Inc()
	}
	respondJSON(w, http.StatusCreated, createOrderResponse{
		OrderID: orderID,
		Message: "order created",
	})
}

func (h *Handlers) ReviseOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	var req reviseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.engine.ReviseOrder(r.Context(), id, req.Status, req.Items)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if o == nil {
		respondJSONError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.GetAllOrders(r.Context())
	if err != nil {
		respondJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	o, err := h.engine.GetOrder(r.Context(), id)
	if err != nil {
		respondJSONError(w, "failed to get order", http.StatusInternalServerError)
		return
	}
	if o == nil {
		respondJSONError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := extractPathParam(r.URL.Path, "/orders/customer/")
	orders, err := h.engine.GetOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		respondJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetMyOrders lists the authenticated customer's orders.
func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetCustomerID(r.Context())
	orders, err := h.engine.GetOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		respondJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) countRejection(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, product.ErrInsufficientStock):
		h.metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
	case errors.Is(err, product.ErrProductNotFound):
		h.metrics.OrdersRejected.WithLabelValues("not_found").Inc()
	case errors.Is(err, order.ErrInvalidRequest):
		h.metrics.OrdersRejected.WithLabelValues("invalid_request").Inc()
	default:
		h.metrics.OrdersRejected.WithLabelValues("internal").Inc()
	}
}

// respondDomainError maps domain errors onto HTTP statuses: validation
// failures to 400, missing resources to 404, stock conflicts to 409,
// everything else to 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrInvalidRequest),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, product.ErrProductNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, product.ErrInsufficientStock):
		respondJSONError(w, err.Error(), http.StatusConflict)
	default:
		respondJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	if i := strings.Index(param, "/"); i >= 0 {
		param = param[:i]
	}
	return param
}
