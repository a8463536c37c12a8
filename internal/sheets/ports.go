package sheets

import (
	"context"

	"contas/internal/ledger"
)

// Ports for outbound adapters.
type (
	// SummaryExporter writes one monthly summary row to an external
	// sheet, replacing any previous row for the same month.
	SummaryExporter interface {
		ExportSummary(ctx context.Context, summary ledger.MonthlySummary) (rowRef string, err error)
	}
)
