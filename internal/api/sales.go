package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"shoppos/m/domain"
	"shoppos/m/internal/invoice"
	"shoppos/m/internal/pos"
	"shoppos/m/internal/store"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req pos.RecordSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.pos.RecordSale(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SaleFilter{
		From:   strings.TrimSpace(q.Get("start_date")),
		To:     strings.TrimSpace(q.Get("end_date")),
		Status: domain.SaleStatus(strings.TrimSpace(q.Get("status"))),
	}
	if raw := q.Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		filter.CustomerID = &id
	}
	switch filter.Status {
	case "", domain.StatusPaid, domain.StatusCredit:
	default:
		respondError(w, http.StatusBadRequest, "status must be paid or credit")
		return
	}

	sales, err := h.pos.ListSales(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.pos.GetSale(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// saleInvoice prints the stored sale. A copy is kept in the invoice archive
// when one is configured; failing to save it does not fail the request.
func (h *Handler) saleInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	inv, err := h.pos.Invoice(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	data, err := h.renderer.Render(inv)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if h.archive != nil {
		path, err := h.archive.Save(inv.Sale, data)
		if err != nil {
			log.Printf("archive invoice for sale %d: %v", id, err)
		} else {
			w.Header().Set("X-Invoice-Path", path)
		}
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", invoice.FileName(inv.Sale)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
