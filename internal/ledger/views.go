package ledger

import (
	"sort"

	"contas/internal/core"
)

// MonthlySummary is the derived cash-flow picture for one calendar
// month. Projected figures include every transaction dated in the
// month; realized figures only the COMPLETED ones. Never persisted.
type MonthlySummary struct {
	Month            core.Date `json:"month"`
	IncomeProjected  float64   `json:"incomeProjected"`
	ExpenseProjected float64   `json:"expenseProjected"`
	IncomeReal       float64   `json:"incomeReal"`
	ExpenseReal      float64   `json:"expenseReal"`
	BalanceProjected float64   `json:"balanceProjected"`
	BalanceReal      float64   `json:"balanceReal"`
}

// InvoiceRollup is the credit-card bill for one month: the summed
// charges and, when a limit is known, the utilization percentage
// clamped to [0, 100].
type InvoiceRollup struct {
	Month       core.Date `json:"month"`
	CardID      string    `json:"cardId,omitempty"`
	Total       float64   `json:"total"`
	Utilization float64   `json:"utilization"`
}

// Summary computes the monthly summary for the month containing ref.
// Recomputing on an unchanged ledger always yields identical results.
func (s *Store) Summary(ref core.Date) MonthlySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := MonthlySummary{Month: ref.MonthStart()}
	for _, t := range s.state.Transactions {
		if !core.SameMonth(t.Date, ref) {
			continue
		}
		switch t.Type {
		case core.Income:
			sum.IncomeProjected += t.Amount
			if t.Status == core.Completed {
				sum.IncomeReal += t.Amount
			}
		case core.Expense:
			sum.ExpenseProjected += t.Amount
			if t.Status == core.Completed {
				sum.ExpenseReal += t.Amount
			}
		}
	}
	sum.BalanceProjected = sum.IncomeProjected - sum.ExpenseProjected
	sum.BalanceReal = sum.IncomeReal - sum.ExpenseReal
	return sum
}

// PendingDigest lists the PENDING transactions whose purchase date
// (not accounting date) falls in the month of ref: things that
// originated this month and still need settling, rather than things
// billed this month.
func (s *Store) PendingDigest(ref core.Date) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.state.Transactions {
		if t.Status != core.Pending {
			continue
		}
		if core.SameMonth(t.EffectivePurchaseDate(), ref) {
			out = append(out, t)
		}
	}
	sortByDate(out)
	return out
}

// Rollup sums the credit-card charges billed in the month of ref.
// cardID narrows to one card; empty means every card. Utilization is
// computed against the matching card's limit (or the summed limits
// when all cards are included) and clamped to [0, 100].
func (s *Store) Rollup(ref core.Date, cardID string) InvoiceRollup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollupLocked(ref, cardID)
}

func (s *Store) rollupLocked(ref core.Date, cardID string) InvoiceRollup {
	roll := InvoiceRollup{Month: ref.MonthStart(), CardID: cardID}
	for _, t := range s.state.Transactions {
		if t.Type != core.Expense || t.PaymentMethod != core.CreditCard {
			continue
		}
		if cardID != "" && t.CardID != cardID {
			continue
		}
		if core.SameMonth(t.Date, ref) {
			roll.Total += t.Amount
		}
	}

	var limit float64
	for _, c := range s.state.Cards {
		if cardID == "" || c.ID == cardID {
			limit += c.Limit
		}
	}
	if limit > 0 {
		roll.Utilization = roll.Total / limit * 100
		if roll.Utilization < 0 {
			roll.Utilization = 0
		}
		if roll.Utilization > 100 {
			roll.Utilization = 100
		}
	}
	return roll
}

// Forecast returns the invoice rollups for the reference month and the
// twelve months after it (offsets 0 through 12). Only transactions
// that already exist are aggregated; nothing hypothetical is
// synthesized for future months.
func (s *Store) Forecast(ref core.Date, cardID string) []InvoiceRollup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InvoiceRollup, 0, 13)
	start := ref.MonthStart()
	for offset := 0; offset <= 12; offset++ {
		out = append(out, s.rollupLocked(start.AddMonths(offset), cardID))
	}
	return out
}

// TransactionFilter narrows List output. Zero values match everything.
type TransactionFilter struct {
	Month  core.Date
	User   string
	Method core.PaymentMethod
	Status core.TransactionStatus
	CardID string
}

// List returns the transactions matching the filter, ordered by
// accounting date.
func (s *Store) List(f TransactionFilter) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.state.Transactions {
		if !f.Month.IsZero() && !core.SameMonth(t.Date, f.Month) {
			continue
		}
		if f.User != "" && t.User != f.User {
			continue
		}
		if f.Method != "" && t.PaymentMethod != f.Method {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.CardID != "" && t.CardID != f.CardID {
			continue
		}
		out = append(out, t)
	}
	sortByDate(out)
	return out
}

func sortByDate(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date.Time)
	})
}
