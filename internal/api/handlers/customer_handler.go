package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"order-service/internal/models"
	"order-service/internal/repository"
)

type CustomerHandler struct {
	repo repository.CustomerRepository
}

func NewCustomerHandler(repo repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

type CustomerCreateRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	c := models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	if err := h.repo.Create(r.Context(), &c); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusConflict, "duplicate_email", err.Error(), nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create customer", nil)
		}
		return
	}

	w.Header().Set("Location", "/customers/"+strconv.Itoa(c.CustomerID))
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid customer id", nil)
		return
	}

	customer, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "customer not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get customer", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	customers, err := h.repo.GetAll(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get customers", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid customer id", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "customer not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, repository.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "datastore unavailable", nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete customer", nil)
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
