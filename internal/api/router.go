package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"order-service/internal/api/handlers"
)

// NewRouter mounts every endpoint of the service.
func NewRouter(
	customers *handlers.CustomerHandler,
	products *handlers.ProductHandler,
	orders *handlers.OrderHandler,
	movements *handlers.MovementHandler,
	reports *handlers.ReportHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customers.Create)
		r.Get("/", customers.GetAll)
		r.Get("/{id}", customers.GetByID)
		r.Delete("/{id}", customers.Delete)
		r.Get("/{id}/orders", orders.ByCustomer)
		r.Get("/{id}/history", reports.History)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", products.Create)
		r.Get("/", products.GetAll)
		r.Get("/{id}", products.GetByID)
		r.Delete("/{id}", products.Delete)
		r.Put("/{id}/stock", products.UpdateStock)
		r.Get("/{id}/movements", movements.ByProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Create)
		r.Get("/", orders.GetAll)
		r.Get("/{id}", orders.GetByID)
		r.Patch("/{id}/status", orders.UpdateStatus)
		r.Get("/{id}/movements", movements.ByOrder)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/top-products", reports.TopProducts)
		r.Get("/customer-spending", reports.Spending)
	})

	return r
}
