package billing

import (
	"errors"
	"math"
	"testing"

	"contas/internal/core"
)

func testCard() *core.Card {
	return &core.Card{
		ID:         "card-1",
		Name:       "Nubank",
		Limit:      5000,
		ClosingDay: 25,
		DueDay:     5,
	}
}

func creditRequest() PurchaseRequest {
	return PurchaseRequest{
		Description:      "Notebook",
		TotalAmount:      900,
		PurchaseDate:     core.NewDate(2024, 1, 26),
		Type:             core.Expense,
		Status:           core.Pending,
		User:             "ana",
		PaymentMethod:    core.CreditCard,
		CardID:           "card-1",
		CategoryID:       "cat-lazer",
		InstallmentCount: 3,
		AmountMode:       core.AmountTotal,
	}
}

func TestMaterializeEndToEnd(t *testing.T) {
	// Purchase on the 26th with closing day 25: billed to February,
	// due dates on the card's due day, amount split three ways.
	txs, err := Materialize(creditRequest(), testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}

	wantDates := []core.Date{
		core.NewDate(2024, 2, 5),
		core.NewDate(2024, 3, 5),
		core.NewDate(2024, 4, 5),
	}
	for i, tx := range txs {
		if tx.Amount != 300 {
			t.Errorf("installment %d amount = %v, want 300", i, tx.Amount)
		}
		if !tx.Date.Equal(wantDates[i].Time) {
			t.Errorf("installment %d date = %s, want %s", i, tx.Date, wantDates[i])
		}
		if !tx.PurchaseDate.Equal(core.NewDate(2024, 1, 26).Time) {
			t.Errorf("installment %d purchase date = %s", i, tx.PurchaseDate)
		}
		if tx.Type != core.Expense {
			t.Errorf("installment %d type = %s, want EXPENSE", i, tx.Type)
		}
		if tx.Installments == nil {
			t.Fatalf("installment %d has no installment metadata", i)
		}
		if tx.Installments.Current != i+1 || tx.Installments.Total != 3 {
			t.Errorf("installment %d meta = %d/%d", i, tx.Installments.Current, tx.Installments.Total)
		}
		if tx.Installments.OriginalTransactionID != txs[0].ID {
			t.Errorf("installment %d origin = %q, want first installment ID %q",
				i, tx.Installments.OriginalTransactionID, txs[0].ID)
		}
		if tx.CardID != "card-1" || tx.User != "ana" || tx.CategoryID != "cat-lazer" {
			t.Errorf("installment %d lost shared fields: %+v", i, tx)
		}
		if tx.Status != core.Pending {
			t.Errorf("installment %d status = %s, want PENDING", i, tx.Status)
		}
	}

	if txs[0].Description != "Notebook (1/3)" || txs[2].Description != "Notebook (3/3)" {
		t.Errorf("descriptions = %q, %q", txs[0].Description, txs[2].Description)
	}
}

func TestMaterializeTotalModeConservation(t *testing.T) {
	req := creditRequest()
	req.TotalAmount = 100
	txs, err := Materialize(req, testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	var sum float64
	for _, tx := range txs {
		sum += tx.Amount
	}
	// 100/3 does not divide evenly; the drift is accepted, not
	// corrected, but the float sum still lands within tolerance.
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("sum of installments = %v, want ~100", sum)
	}
	if txs[0].Amount != txs[1].Amount || txs[1].Amount != txs[2].Amount {
		t.Errorf("installment amounts differ: %v %v %v", txs[0].Amount, txs[1].Amount, txs[2].Amount)
	}
}

func TestMaterializePerInstallmentMode(t *testing.T) {
	req := creditRequest()
	req.TotalAmount = 50
	req.InstallmentCount = 4
	req.AmountMode = core.AmountPerInstallment

	txs, err := Materialize(req, testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txs))
	}
	for i, tx := range txs {
		if tx.Amount != 50 {
			t.Errorf("installment %d amount = %v, want 50 verbatim", i, tx.Amount)
		}
	}
}

func TestMaterializeCashPath(t *testing.T) {
	req := PurchaseRequest{
		Description:      "Mercado",
		TotalAmount:      120.5,
		PurchaseDate:     core.NewDate(2024, 5, 12),
		Type:             core.Expense,
		Status:           core.Completed,
		User:             "bruno",
		PaymentMethod:    core.CashDebit,
		AccountID:        "acc-1",
		InstallmentCount: 6, // ignored off the credit path
	}

	txs, err := Materialize(req, nil)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Installments != nil {
		t.Error("cash transaction must not carry installment metadata")
	}
	if !tx.Date.Equal(tx.PurchaseDate.Time) {
		t.Errorf("cash accounting date %s != purchase date %s", tx.Date, tx.PurchaseDate)
	}
	if tx.AccountID != "acc-1" || tx.CardID != "" {
		t.Errorf("cash transaction references wrong holder: %+v", tx)
	}
}

func TestMaterializeIncomeIgnoresCreditFields(t *testing.T) {
	req := creditRequest()
	req.Type = core.Income
	req.PaymentMethod = core.CreditCard // credit income is not modeled

	txs, err := Materialize(req, nil)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != core.Income || txs[0].Installments != nil {
		t.Errorf("income produced %+v", txs[0])
	}
}

func TestMaterializeUnknownCard(t *testing.T) {
	txs, err := Materialize(creditRequest(), nil)
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected zero transactions, got %d", len(txs))
	}
}

func TestMaterializeInvoiceOverride(t *testing.T) {
	req := creditRequest()
	override := core.NewDate(2024, 6, 1)
	req.InvoiceOverride = &override
	req.InstallmentCount = 2

	txs, err := Materialize(req, testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if !txs[0].Date.Equal(core.NewDate(2024, 6, 5).Time) {
		t.Errorf("override start = %s, want 2024-06-05", txs[0].Date)
	}
	if !txs[1].Date.Equal(core.NewDate(2024, 7, 5).Time) {
		t.Errorf("override second = %s, want 2024-07-05", txs[1].Date)
	}
}

func TestMaterializeNotIdempotent(t *testing.T) {
	first, err := Materialize(creditRequest(), testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	second, err := Materialize(creditRequest(), testCard())
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	for i := range first {
		if first[i].ID == second[i].ID {
			t.Errorf("installment %d shares an ID across calls", i)
		}
	}
}

func TestPurchaseRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PurchaseRequest)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(r *PurchaseRequest) {},
		},
		{
			name:    "empty description",
			mutate:  func(r *PurchaseRequest) { r.Description = "  " },
			wantErr: core.ErrEmptyDescription,
		},
		{
			name:    "zero amount",
			mutate:  func(r *PurchaseRequest) { r.TotalAmount = 0 },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(r *PurchaseRequest) { r.TotalAmount = -10 },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "NaN amount",
			mutate:  func(r *PurchaseRequest) { r.TotalAmount = math.NaN() },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "credit purchase without card",
			mutate:  func(r *PurchaseRequest) { r.CardID = "" },
			wantErr: core.ErrMissingCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := creditRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
