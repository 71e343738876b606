package handlers

import (
	"errors"
	"net/http"

	"order-service/internal/repository"
)

// MovementHandler serves the stock_movements audit trail, per product
// and per order.
type MovementHandler struct {
	repo repository.MovementRepository
}

func NewMovementHandler(repo repository.MovementRepository) *MovementHandler {
	return &MovementHandler{repo: repo}
}

func (h *MovementHandler) ByProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id", nil)
		return
	}

	movements, err := h.repo.GetByProductID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get stock movements", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, movements)
}

func (h *MovementHandler) ByOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid order id", nil)
		return
	}

	movements, err := h.repo.GetByOrderID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get stock movements", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, movements)
}
