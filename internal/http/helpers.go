package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"contas/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// monthParam reads the ?month=YYYY-MM query parameter, defaulting to
// the current month.
func monthParam(r *http.Request) (core.Date, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return core.DateOf(time.Now()).MonthStart(), nil
	}
	return core.ParseMonth(raw)
}
