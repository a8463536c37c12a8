package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"contas/internal/ledger"

	_ "modernc.org/sqlite"
)

// StorageKey is the fixed key the whole household document lives
// under. The snapshot is one JSON blob; there is no row-per-record
// schema to migrate when the document shape evolves.
const StorageKey = "contas-data"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the snapshot and applies the additive migrations. The
// second return value is false when no snapshot exists yet.
func (r *SQLiteRepository) Load(ctx context.Context) (ledger.State, bool, error) {
	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE key = ?`, StorageKey,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Normalize(ledger.State{}), false, nil
	}
	if err != nil {
		return ledger.State{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var state ledger.State
	if err := json.Unmarshal([]byte(document), &state); err != nil {
		return ledger.State{}, false, fmt.Errorf("decode snapshot: %w", err)
	}

	state = ledger.Normalize(state)
	slog.InfoContext(ctx, "Snapshot loaded from SQLite",
		"transactions", len(state.Transactions),
		"cards", len(state.Cards),
		"accounts", len(state.Accounts))
	return state, true, nil
}

// Save replaces the snapshot atomically. Implements ledger.Persister.
func (r *SQLiteRepository) Save(ctx context.Context, state ledger.State) error {
	document, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, document, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP`,
		StorageKey, string(document))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
