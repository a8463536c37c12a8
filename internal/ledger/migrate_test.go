package ledger

import (
	"testing"

	"contas/internal/core"
)

func TestNormalizeBackfills(t *testing.T) {
	state := Normalize(State{
		Transactions: []core.Transaction{
			{
				ID:          "t1",
				Description: "Aluguel antigo",
				Amount:      1200,
				Type:        core.Expense,
				Date:        core.NewDate(2023, 5, 10),
			},
			{
				ID:           "t2",
				Description:  "Mercado",
				Amount:       200,
				Type:         core.Expense,
				Status:       core.Pending,
				Date:         core.NewDate(2023, 6, 5),
				PurchaseDate: core.NewDate(2023, 6, 1),
			},
		},
	})

	old := state.Transactions[0]
	if old.Status != core.Completed {
		t.Errorf("missing status should backfill to COMPLETED, got %s", old.Status)
	}
	if !old.PurchaseDate.Equal(old.Date.Time) {
		t.Errorf("missing purchase date should backfill from date, got %s", old.PurchaseDate)
	}

	// Records that already carry the fields stay untouched.
	newer := state.Transactions[1]
	if newer.Status != core.Pending {
		t.Errorf("existing status overwritten: %s", newer.Status)
	}
	if !newer.PurchaseDate.Equal(core.NewDate(2023, 6, 1).Time) {
		t.Errorf("existing purchase date overwritten: %s", newer.PurchaseDate)
	}
}

func TestNormalizeSeedsCategories(t *testing.T) {
	state := Normalize(State{})
	if len(state.Categories) != len(DefaultCategories()) {
		t.Fatalf("empty snapshot should get default categories, got %d", len(state.Categories))
	}
	if state.Transactions == nil || state.Cards == nil || state.Accounts == nil {
		t.Error("nil slices should normalize to empty")
	}

	// Existing categories are never replaced.
	custom := Normalize(State{Categories: []core.Category{{ID: "c1", Name: "Pets", Type: core.Expense}}})
	if len(custom.Categories) != 1 {
		t.Errorf("custom categories replaced: %d", len(custom.Categories))
	}
}
