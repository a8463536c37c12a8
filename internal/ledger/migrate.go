package ledger

import (
	"contas/internal/core"
)

// DefaultCategories seeds an empty snapshot. IDs are fixed so repeated
// loads never duplicate them.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "cat-salario", Name: "Salário", Color: "#16a34a", Type: core.Income},
		{ID: "cat-outras-rendas", Name: "Outras rendas", Color: "#65a30d", Type: core.Income},
		{ID: "cat-moradia", Name: "Moradia", Color: "#2563eb", Type: core.Expense},
		{ID: "cat-mercado", Name: "Mercado", Color: "#ea580c", Type: core.Expense},
		{ID: "cat-transporte", Name: "Transporte", Color: "#7c3aed", Type: core.Expense},
		{ID: "cat-saude", Name: "Saúde", Color: "#dc2626", Type: core.Expense},
		{ID: "cat-lazer", Name: "Lazer", Color: "#db2777", Type: core.Expense},
		{ID: "cat-outros", Name: "Outros", Color: "#64748b", Type: core.Expense},
	}
}

// Normalize applies the additive load-time migrations: snapshots have
// no schema version, so every pass must tolerate absent fields.
// Missing statuses default to COMPLETED (pre-status records were all
// settled money), missing purchase dates backfill from the accounting
// date, and an empty category list gets the defaults.
func Normalize(s State) State {
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if t.Status == "" {
			t.Status = core.Completed
		}
		if t.PurchaseDate.IsZero() {
			t.PurchaseDate = t.Date
		}
	}
	if len(s.Categories) == 0 {
		s.Categories = DefaultCategories()
	}
	if s.Transactions == nil {
		s.Transactions = []core.Transaction{}
	}
	if s.Cards == nil {
		s.Cards = []core.Card{}
	}
	if s.Accounts == nil {
		s.Accounts = []core.Account{}
	}
	return s
}
