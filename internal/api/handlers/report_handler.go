package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"order-service/internal/repository"
)

type ReportHandler struct {
	repo repository.ReportRepository
}

func NewReportHandler(repo repository.ReportRepository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// History returns one row per line item the customer ever bought,
// straight from the customer_order_details view.
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	customerID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid customer id", nil)
		return
	}

	history, err := h.repo.CustomerOrderHistory(r.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get order history", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_input", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	sales, err := h.repo.TopSellingProducts(r.Context(), limit)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get top products", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

func (h *ReportHandler) Spending(w http.ResponseWriter, r *http.Request) {
	spending, err := h.repo.CustomerSpending(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get customer spending", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, spending)
}
