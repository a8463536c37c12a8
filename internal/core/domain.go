package core

import (
	"errors"
	"strings"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"

	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"

	CashDebit  PaymentMethod = "CASH_DEBIT"
	CreditCard PaymentMethod = "CREDIT_CARD"

	AmountTotal          AmountMode = "TOTAL"
	AmountPerInstallment AmountMode = "PER_INSTALLMENT"
)

type (
	TransactionType   string
	TransactionStatus string
	PaymentMethod     string
	AmountMode        string

	// Installments links one charge of a split credit purchase to its
	// siblings. Current is 1-based; OriginalTransactionID is the ID of
	// the first installment of the purchase.
	Installments struct {
		Current               int    `json:"current"`
		Total                 int    `json:"total"`
		OriginalTransactionID string `json:"originalTransactionId,omitempty"`
	}

	// Transaction is one money movement. Date is the accounting date
	// (the invoice due date for credit purchases); PurchaseDate is the
	// real-world date the purchase happened.
	Transaction struct {
		ID            string            `json:"id"`
		Description   string            `json:"description"`
		Amount        float64           `json:"amount"` // magnitude, never signed
		Type          TransactionType   `json:"type"`
		Status        TransactionStatus `json:"status"`
		Date          Date              `json:"date"`
		PurchaseDate  Date              `json:"purchaseDate,omitempty"`
		User          string            `json:"user"`
		PaymentMethod PaymentMethod     `json:"paymentMethod"`
		CategoryID    string            `json:"categoryId,omitempty"`
		AccountID     string            `json:"accountId,omitempty"`
		CardID        string            `json:"cardId,omitempty"`
		Installments  *Installments     `json:"installments,omitempty"`
	}

	// Card is a credit card with its billing-cycle configuration.
	// ClosingDay and DueDay are independent day-of-month values; no
	// ordering between them is enforced.
	Card struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Limit      float64 `json:"limit"`
		ClosingDay int     `json:"closingDay"`
		DueDay     int     `json:"dueDay"`
		LastFour   string  `json:"lastFourDigits,omitempty"`
	}

	// Account is a bank account. Balance is user-maintained, not
	// recomputed from transactions.
	Account struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		InitialBalance float64 `json:"initialBalance"`
		Balance        float64 `json:"balance"`
	}

	// Category tags transactions; Type restricts which transaction
	// types may reference it.
	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color,omitempty"`
		Type  TransactionType `json:"type"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrMissingCard      = errors.New("missing card for credit purchase")
	ErrMissingAccount   = errors.New("missing account for cash movement")
)

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b Date) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// EffectivePurchaseDate falls back to the accounting date for records
// stored before purchaseDate existed.
func (t Transaction) EffectivePurchaseDate() Date {
	if t.PurchaseDate.IsZero() {
		return t.Date
	}
	return t.PurchaseDate
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (s TransactionStatus) Valid() bool {
	return s == Pending || s == Completed
}

// Toggled flips PENDING to COMPLETED and back.
func (s TransactionStatus) Toggled() TransactionStatus {
	if s == Pending {
		return Completed
	}
	return Pending
}

func (m PaymentMethod) Valid() bool {
	return m == CashDebit || m == CreditCard
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDay
	}
	if c.Limit < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
