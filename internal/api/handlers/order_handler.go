package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"order-service/internal/models"
	"order-service/internal/repository"
)

// ProductInvalidator drops cached product state after an order changed
// stock levels behind the cache's back.
type ProductInvalidator interface {
	InvalidateProducts(ctx context.Context, ids ...int)
}

type OrderHandler struct {
	repo        repository.OrderRepository
	invalidator ProductInvalidator
}

// NewOrderHandler wires the order endpoints. invalidator may be nil
// when the service runs without a cache.
func NewOrderHandler(repo repository.OrderRepository, invalidator ProductInvalidator) *OrderHandler {
	return &OrderHandler{repo: repo, invalidator: invalidator}
}

type OrderCreateRequest struct {
	CustomerID int                 `json:"customer_id"`
	Items      []models.BasketItem `json:"items"`
}

type StatusUpdateRequest struct {
	Status models.OrderStatus `json:"status"`
}

// OrderResponse is an order with its line items inlined.
type OrderResponse struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	orderID, err := h.repo.CreateOrder(r.Context(), req.CustomerID, req.Items)
	if err != nil {
		var stockErr *repository.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			writeError(w, http.StatusConflict, "insufficient_stock", stockErr.Error(), map[string]any{
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			})
		case errors.Is(err, repository.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product_not_found", err.Error(), nil)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "customer_not_found", err.Error(), nil)
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "invalid_basket", err.Error(), nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create order", nil)
		}
		return
	}

	if h.invalidator != nil {
		ids := make([]int, 0, len(req.Items))
		for _, line := range req.Items {
			ids = append(ids, line.ProductID)
		}
		h.invalidator.InvalidateProducts(r.Context(), ids...)
	}

	w.Header().Set("Location", "/orders/"+strconv.Itoa(orderID))

	order, items, err := h.repo.GetOrderWithItems(r.Context(), orderID)
	if err != nil {
		writeJSON(w, http.StatusCreated, map[string]int{"order_id": orderID})
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Order: *order, Items: items})
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid order id", nil)
		return
	}

	order, items, err := h.repo.GetOrderWithItems(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get order", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, OrderResponse{Order: *order, Items: items})
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.GetAll(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get orders", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ByCustomer lists a customer's orders, newest first. An unknown
// customer yields an empty list, not a 404.
func (h *OrderHandler) ByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid customer id", nil)
		return
	}

	orders, err := h.repo.GetByCustomerID(r.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get orders", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid order id", nil)
		return
	}

	var req StatusUpdateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update order status", nil)
		}
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNoContent, nil)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
