package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/ledger"
)

// Store keeps exported summaries in memory, keyed by month label.
// Used when no spreadsheet is configured and in worker tests.
type Store struct {
	mu    sync.Mutex
	rows  map[string]ledger.MonthlySummary
	order []string
}

func New() *Store {
	return &Store{rows: map[string]ledger.MonthlySummary{}}
}

// ExportSummary upserts the month's row and returns a synthetic ref.
func (s *Store) ExportSummary(_ context.Context, summary ledger.MonthlySummary) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := summary.Month.Format("2006-01")
	if _, exists := s.rows[label]; !exists {
		s.order = append(s.order, label)
	}
	s.rows[label] = summary
	return fmt.Sprintf("mem:%s", label), nil
}

// Summaries returns the exported rows in first-export order.
func (s *Store) Summaries() []ledger.MonthlySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.MonthlySummary, 0, len(s.order))
	for _, label := range s.order {
		out = append(out, s.rows[label])
	}
	return out
}
