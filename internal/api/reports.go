package api

import "net/http"

func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pos.DailySales(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pos.MonthlySales(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
