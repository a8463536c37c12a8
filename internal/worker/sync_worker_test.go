package worker

import (
	"context"
	"testing"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/ledger"
	"contas/internal/sheets/memory"
)

type fakeSnapshots struct {
	state ledger.State
	found bool
}

func (f fakeSnapshots) Load(context.Context) (ledger.State, bool, error) {
	return f.state, f.found, nil
}

func snapshotWithParcels() ledger.State {
	return ledger.Normalize(ledger.State{
		Transactions: []core.Transaction{
			{
				ID: "t1", Description: "Notebook (1/3)", Amount: 300,
				Type: core.Expense, Status: core.Pending,
				Date:         core.NewDate(2024, 2, 5),
				PurchaseDate: core.NewDate(2024, 1, 26),
				User:         "ana", PaymentMethod: core.CreditCard, CardID: "card-1",
			},
			{
				ID: "t2", Description: "Notebook (2/3)", Amount: 300,
				Type: core.Expense, Status: core.Pending,
				Date:         core.NewDate(2024, 3, 5),
				PurchaseDate: core.NewDate(2024, 1, 26),
				User:         "ana", PaymentMethod: core.CreditCard, CardID: "card-1",
			},
			{
				ID: "t3", Description: "Salário", Amount: 4000,
				Type: core.Income, Status: core.Completed,
				Date:         core.NewDate(2024, 2, 1),
				PurchaseDate: core.NewDate(2024, 2, 1),
				User:         "ana", PaymentMethod: core.CashDebit,
			},
		},
	})
}

func TestHandleChangeMessageExportsTouchedMonths(t *testing.T) {
	exporter := memory.New()
	w := NewSyncWorker(fakeSnapshots{state: snapshotWithParcels(), found: true}, exporter)

	msg := amqp.NewLedgerChangeMessage("transactions.create", []string{"t1", "t2"})
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}

	rows := exporter.Summaries()
	if len(rows) != 2 {
		t.Fatalf("expected 2 exported months, got %d", len(rows))
	}
	feb := rows[0]
	if feb.Month.String() != "2024-02-01" {
		t.Errorf("first month = %s, want 2024-02-01", feb.Month)
	}
	if feb.ExpenseProjected != 300 || feb.IncomeProjected != 4000 {
		t.Errorf("february summary = %+v", feb)
	}
	if mar := rows[1]; mar.ExpenseProjected != 300 || mar.IncomeProjected != 0 {
		t.Errorf("march summary = %+v", mar)
	}
}

func TestHandleChangeMessageDedupesMonths(t *testing.T) {
	exporter := memory.New()
	w := NewSyncWorker(fakeSnapshots{state: snapshotWithParcels(), found: true}, exporter)

	msg := amqp.NewLedgerChangeMessage("transactions.toggle", []string{"t1", "t3"})
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}

	// Both transactions live in February: one export.
	if rows := exporter.Summaries(); len(rows) != 1 {
		t.Fatalf("expected 1 exported month, got %d", len(rows))
	}
}

func TestHandleChangeMessageNoSnapshot(t *testing.T) {
	exporter := memory.New()
	w := NewSyncWorker(fakeSnapshots{found: false}, exporter)

	msg := amqp.NewLedgerChangeMessage("transactions.create", []string{"t1"})
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}
	if rows := exporter.Summaries(); len(rows) != 0 {
		t.Errorf("nothing should export without a snapshot, got %d rows", len(rows))
	}
}

func TestSyncCurrentMonth(t *testing.T) {
	exporter := memory.New()
	w := NewSyncWorker(fakeSnapshots{state: snapshotWithParcels(), found: true}, exporter)

	if err := w.SyncCurrentMonth(context.Background()); err != nil {
		t.Fatalf("SyncCurrentMonth() error = %v", err)
	}
	if rows := exporter.Summaries(); len(rows) != 1 {
		t.Errorf("expected exactly the current month, got %d rows", len(rows))
	}
}
