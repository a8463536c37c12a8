package http

import (
	"io"
	"net/http"

	"contas/internal/ledger"
	"contas/internal/receipt"
)

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "advice is not configured")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	summary := s.store.Summary(month)
	txs := s.store.List(ledger.TransactionFilter{
		Month: month,
		User:  r.URL.Query().Get("user"),
	})
	advice := s.advisor.MonthlyAdvice(r.Context(), summary, txs)

	writeJSON(w, http.StatusOK, map[string]string{
		"month":  month.Format("2006-01"),
		"advice": advice,
	})
}

const maxReceiptSize = 10 << 20 // 10 MiB

type receiptResponse struct {
	Guess receipt.Guess `json:"guess"`
}

// handleReceipt extracts a draft transaction from an uploaded photo.
// The draft is returned for review; nothing is written to the ledger.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	if s.receipts == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	guess, err := s.receipts.Parse(r.Context(), image, mimeType)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not read the receipt")
		return
	}

	// Enrich the draft with local matches.
	state := s.store.State()
	if guess.LastFour != "" {
		if cardID, ok := receipt.MatchCard(guess.LastFour, state.Cards); ok {
			guess.CardID = cardID
		}
	}
	if categoryID, ok := receipt.SuggestCategory(guess.Description, state.Transactions); ok {
		guess.CategoryID = categoryID
	}

	writeJSON(w, http.StatusOK, receiptResponse{Guess: guess})
}
