package api

import (
	"net/http"
	"strconv"

	"shoppos/m/internal/pos"
)

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req pos.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	payment, err := h.pos.RecordPayment(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	var customerID *int64
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		customerID = &id
	}
	payments, err := h.pos.PaymentHistory(r.Context(), customerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
