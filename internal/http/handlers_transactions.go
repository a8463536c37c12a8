package http

import (
	"errors"
	"net/http"

	"contas/internal/billing"
	"contas/internal/core"
	"contas/internal/ledger"
)

type createTransactionRequest struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	User          string `json:"user"`
	PaymentMethod string `json:"paymentMethod"`
	CardID        string `json:"cardId"`
	AccountID     string `json:"accountId"`
	CategoryID    string `json:"categoryId"`
	Installments  int    `json:"installments"`
	AmountMode    string `json:"amountMode"`
	InvoiceMonth  string `json:"invoiceMonth"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	purchaseDate, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	status := core.TransactionStatus(req.Status)
	if req.Status == "" {
		status = core.Pending
	}
	mode := core.AmountMode(req.AmountMode)
	if req.AmountMode == "" {
		mode = core.AmountTotal
	}

	preq := billing.PurchaseRequest{
		Description:      req.Description,
		TotalAmount:      amount,
		PurchaseDate:     purchaseDate,
		Type:             core.TransactionType(req.Type),
		Status:           status,
		User:             req.User,
		PaymentMethod:    core.PaymentMethod(req.PaymentMethod),
		CardID:           req.CardID,
		AccountID:        req.AccountID,
		CategoryID:       req.CategoryID,
		InstallmentCount: req.Installments,
		AmountMode:       mode,
	}
	if req.InvoiceMonth != "" {
		override, err := core.ParseMonth(req.InvoiceMonth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid invoiceMonth, expected YYYY-MM")
			return
		}
		preq.InvoiceOverride = &override
	}

	txs, err := s.store.AddPurchase(r.Context(), preq)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrCardNotFound):
			writeError(w, http.StatusNotFound, "card not found")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, txs)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := ledger.TransactionFilter{
		User:   r.URL.Query().Get("user"),
		Method: core.PaymentMethod(r.URL.Query().Get("paymentMethod")),
		Status: core.TransactionStatus(r.URL.Query().Get("status")),
		CardID: r.URL.Query().Get("cardId"),
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := core.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		filter.Month = month
	}

	writeJSON(w, http.StatusOK, s.store.List(filter))
}

type updateTransactionRequest struct {
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	CategoryID  *string `json:"categoryId"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	upd := ledger.TransactionUpdate{
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
			return
		}
		upd.Amount = &amount
	}

	tx, err := s.store.UpdateTransaction(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.ToggleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}
