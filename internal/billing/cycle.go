// Package billing implements the credit-card allocation engine: which
// monthly invoice a purchase belongs to, the due-date sequence of an
// installment plan, and the split of one purchase into dated
// transaction records.
package billing

import (
	"contas/internal/core"
)

// InvoiceMonth resolves the invoice month a purchase is billed to,
// returned as a first-of-month marker. Purchases on or after the
// card's closing day roll to the next month's statement.
func InvoiceMonth(purchaseDate core.Date, closingDay int) core.Date {
	month := purchaseDate.MonthStart()
	if purchaseDate.Day() >= closingDay {
		month = month.AddMonths(1)
	}
	return month
}

// DueDates materializes the ordered due dates for count consecutive
// invoices starting at startMonth, each on the card's due day. The
// full list is built up front because every element becomes a
// persisted transaction. When dueDay exceeds the days in a month the
// date normalizes forward (day 31 in February lands in early March);
// see the package tests for the exact behavior.
func DueDates(startMonth core.Date, dueDay, count int) []core.Date {
	dates := make([]core.Date, 0, count)
	for i := 0; i < count; i++ {
		m := startMonth.AddMonths(i)
		dates = append(dates, core.NewDate(m.Year(), m.Month(), dueDay))
	}
	return dates
}
