package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/ledger"
	"contas/internal/sheets"
)

// Snapshots is the slice of storage the worker needs: it always reads
// the latest committed state rather than trusting message payloads.
type Snapshots interface {
	Load(ctx context.Context) (ledger.State, bool, error)
}

// SyncWorker recomputes monthly summaries after ledger changes and
// exports them to a spreadsheet.
type SyncWorker struct {
	storage  Snapshots
	exporter sheets.SummaryExporter
}

func NewSyncWorker(storage Snapshots, exporter sheets.SummaryExporter) *SyncWorker {
	return &SyncWorker{
		storage:  storage,
		exporter: exporter,
	}
}

// HandleChangeMessage processes one change-feed message. The touched
// transactions decide which months need re-export.
func (w *SyncWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"operation", msg.Op,
		"ids", len(msg.IDs))

	state, found, err := w.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		slog.WarnContext(ctx, "No snapshot yet, nothing to export")
		return nil
	}

	months := touchedMonths(state, msg.IDs)
	if len(months) == 0 {
		// Deletes leave no trace in the snapshot; re-export the
		// current month so totals stay honest.
		months = []core.Date{core.DateOf(time.Now()).MonthStart()}
	}

	return w.exportMonths(ctx, state, months)
}

// SyncCurrentMonth is the startup catch-up pass and the interval
// fallback for lost messages.
func (w *SyncWorker) SyncCurrentMonth(ctx context.Context) error {
	state, found, err := w.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		return nil
	}
	month := core.DateOf(time.Now()).MonthStart()
	return w.exportMonths(ctx, state, []core.Date{month})
}

// Run re-exports the current month on every tick until ctx is done.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncCurrentMonth(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) exportMonths(ctx context.Context, state ledger.State, months []core.Date) error {
	store := ledger.NewStore(state, nil, nil)
	for _, month := range months {
		summary := store.Summary(month)
		ref, err := w.exporter.ExportSummary(ctx, summary)
		if err != nil {
			return fmt.Errorf("export summary for %s: %w", month.Format("2006-01"), err)
		}
		slog.InfoContext(ctx, "Monthly summary exported",
			"month", month.Format("2006-01"),
			"sheets_ref", ref)
	}
	return nil
}

// touchedMonths collects the distinct accounting months of the listed
// transactions, in snapshot order.
func touchedMonths(state ledger.State, ids []string) []core.Date {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	seen := map[string]bool{}
	var out []core.Date
	for _, t := range state.Transactions {
		if !wanted[t.ID] {
			continue
		}
		month := t.Date.MonthStart()
		key := month.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, month)
		}
	}
	return out
}
