package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"shoppos/m/internal/auth"
	"shoppos/m/internal/invoice"
	"shoppos/m/internal/pos"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	pos      *pos.Service
	auth     *auth.Service
	renderer *invoice.Renderer
	archive  *invoice.Archive
}

// New constructs a Handler. A nil archive serves invoices without saving
// them to disk.
func New(svc *pos.Service, authSvc *auth.Service, renderer *invoice.Renderer, archive *invoice.Archive) *Handler {
	return &Handler{pos: svc, auth: authSvc, renderer: renderer, archive: archive}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Invoice-Path"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/password", h.changePassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.With(h.requireRole(auth.RoleOwner)).Post("/operators", h.createOperator)

		pr.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.With(h.requireRole(auth.RoleOwner)).Get("/export", h.exportProducts)
			r.With(h.requireRole(auth.RoleOwner)).Post("/import", h.importProducts)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.With(h.requireRole(auth.RoleOwner)).Delete("/{id}", h.deleteProduct)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Post("/", h.createCustomer)
			r.Get("/", h.listCustomers)
			r.Get("/phone/{phone}", h.customerByPhone)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.With(h.requireRole(auth.RoleOwner)).Delete("/{id}", h.deleteCustomer)
			r.Get("/{id}/due", h.customerDue)
			r.Get("/{id}/statement", h.customerStatement)
			r.Get("/{id}/payments", h.customerPayments)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Get("/", h.listSales)
			r.Get("/{id}", h.getSale)
			r.Get("/{id}/invoice", h.saleInvoice)
		})

		pr.Route("/payments", func(r chi.Router) {
			r.Post("/", h.createPayment)
			r.Get("/", h.listPayments)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Use(h.requireRole(auth.RoleOwner))
			r.Get("/sales/daily", h.dailySales)
			r.Get("/sales/monthly", h.monthlySales)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps operation failures onto HTTP statuses. Storage
// failures are logged; everything else is the caller's to fix.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pos.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pos.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, pos.ErrInsufficientStock),
		errors.Is(err, pos.ErrInvalidDiscount),
		errors.Is(err, pos.ErrMissingCustomer),
		errors.Is(err, pos.ErrOverPayment),
		errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, invoice.ErrInvalidSaleRecord):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, pos.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, pos.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	respondError(w, status, err.Error())
}
