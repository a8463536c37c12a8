package http

import (
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Summary(month))
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	writeJSON(w, http.StatusOK, s.store.PendingDigest(month))
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Rollup(month, r.URL.Query().Get("cardId")))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Forecast(month, r.URL.Query().Get("cardId")))
}
