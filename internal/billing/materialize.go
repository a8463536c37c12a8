package billing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
)

// ErrCardNotFound is returned when a credit purchase references a card
// that does not exist. The purchase is rejected whole; no records are
// produced.
var ErrCardNotFound = errors.New("card not found")

// PurchaseRequest is one user entry: a single cash/income movement or
// a credit purchase to be split across installments.
type PurchaseRequest struct {
	Description      string
	TotalAmount      float64
	PurchaseDate     core.Date
	Type             core.TransactionType
	Status           core.TransactionStatus
	User             string
	PaymentMethod    core.PaymentMethod
	CardID           string
	AccountID        string
	CategoryID       string
	InstallmentCount int
	AmountMode       core.AmountMode
	// InvoiceOverride, when set, is the user-picked target invoice
	// month; it replaces the closing-day computation entirely.
	InvoiceOverride *core.Date
}

// Validate rejects a request before it reaches Materialize. Amount and
// description problems never produce partial output.
func (r PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return core.ErrEmptyDescription
	}
	if r.TotalAmount <= 0 || math.IsNaN(r.TotalAmount) || math.IsInf(r.TotalAmount, 0) {
		return core.ErrInvalidAmount
	}
	if !r.Type.Valid() {
		return core.ErrInvalidType
	}
	if r.PurchaseDate.IsZero() {
		return fmt.Errorf("missing purchase date")
	}
	if r.creditPath() && r.CardID == "" {
		return core.ErrMissingCard
	}
	return nil
}

// creditPath reports whether the request goes through invoice
// allocation. Income is always a single direct record, whatever the
// payment method field says.
func (r PurchaseRequest) creditPath() bool {
	return r.PaymentMethod == core.CreditCard && r.Type != core.Income
}

// Materialize turns one request into its persisted transaction
// records. Cash and income requests yield exactly one record whose
// accounting date equals the purchase date. Credit purchases yield one
// EXPENSE record per installment, dated on consecutive invoice due
// dates. The operation is not idempotent: two identical calls produce
// two independent record sets.
func Materialize(req PurchaseRequest, card *core.Card) ([]core.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !req.creditPath() {
		return []core.Transaction{{
			ID:            uuid.NewString(),
			Description:   req.Description,
			Amount:        req.TotalAmount,
			Type:          req.Type,
			Status:        req.Status,
			Date:          req.PurchaseDate,
			PurchaseDate:  req.PurchaseDate,
			User:          req.User,
			PaymentMethod: core.CashDebit,
			CategoryID:    req.CategoryID,
			AccountID:     req.AccountID,
		}}, nil
	}

	if card == nil {
		return nil, ErrCardNotFound
	}

	count := req.InstallmentCount
	if count < 1 {
		count = 1
	}

	startMonth := InvoiceMonth(req.PurchaseDate, card.ClosingDay)
	if req.InvoiceOverride != nil {
		startMonth = req.InvoiceOverride.MonthStart()
	}

	// TOTAL mode divides; residual cent drift across installments is
	// accepted, not redistributed.
	perInstallment := req.TotalAmount
	if req.AmountMode != core.AmountPerInstallment {
		perInstallment = req.TotalAmount / float64(count)
	}

	dueDates := DueDates(startMonth, card.DueDay, count)

	txs := make([]core.Transaction, 0, count)
	originID := uuid.NewString()
	for i, due := range dueDates {
		t := core.Transaction{
			ID:            uuid.NewString(),
			Description:   req.Description,
			Amount:        perInstallment,
			Type:          core.Expense,
			Status:        req.Status,
			Date:          due,
			PurchaseDate:  req.PurchaseDate,
			User:          req.User,
			PaymentMethod: core.CreditCard,
			CategoryID:    req.CategoryID,
			CardID:        card.ID,
		}
		if i == 0 {
			t.ID = originID
		}
		if count > 1 {
			t.Description = fmt.Sprintf("%s (%d/%d)", req.Description, i+1, count)
			t.Installments = &core.Installments{
				Current:               i + 1,
				Total:                 count,
				OriginalTransactionID: originID,
			}
		}
		txs = append(txs, t)
	}
	return txs, nil
}
