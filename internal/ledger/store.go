// Package ledger holds the in-memory transaction collection, its
// mutation surface and the derived read views. All writes go through
// one mutex; persistence runs after a mutation commits, never before.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"contas/internal/billing"
	"contas/internal/core"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
)

// State is the whole persisted document: every collection the app
// knows about, saved and restored as one JSON blob.
type State struct {
	Transactions []core.Transaction `json:"transactions"`
	Cards        []core.Card        `json:"cards"`
	Accounts     []core.Account     `json:"accounts"`
	Categories   []core.Category    `json:"categories"`
}

// Persister saves a committed state. Implementations must treat the
// state as a full replacement, not a delta.
type Persister interface {
	Save(ctx context.Context, s State) error
}

// Notifier announces committed mutations to interested consumers
// (the change feed). Failures never fail the mutation.
type Notifier interface {
	PublishLedgerChange(ctx context.Context, op string, ids []string) error
}

// Store serializes every mutation through one mutex. There is no finer
// locking because there is no concurrent writer beyond HTTP handlers.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
	notifier  Notifier
}

// NewStore wraps an already-normalized state. persister and notifier
// may be nil (tests, worker read paths).
func NewStore(initial State, persister Persister, notifier Notifier) *Store {
	return &Store{state: initial, persister: persister, notifier: notifier}
}

// State returns a deep-enough copy for read-only use: the slices are
// cloned so callers cannot grow or reorder the live collections.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (st State) clone() State {
	out := State{
		Transactions: make([]core.Transaction, len(st.Transactions)),
		Cards:        make([]core.Card, len(st.Cards)),
		Accounts:     make([]core.Account, len(st.Accounts)),
		Categories:   make([]core.Category, len(st.Categories)),
	}
	copy(out.Transactions, st.Transactions)
	copy(out.Cards, st.Cards)
	copy(out.Accounts, st.Accounts)
	copy(out.Categories, st.Categories)
	return out
}

// commit persists the mutated state and publishes the change. A
// persistence failure rolls the error up; a notification failure is
// only logged.
func (s *Store) commit(ctx context.Context, op string, ids []string) error {
	if s.persister != nil {
		if err := s.persister.Save(ctx, s.state); err != nil {
			return fmt.Errorf("persist ledger: %w", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.PublishLedgerChange(ctx, op, ids); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ledger change",
				"operation", op, "error", err)
		}
	}
	return nil
}

// AddPurchase validates and materializes one purchase request, then
// appends the resulting transactions. Exactly installmentCount records
// are appended for a valid card; an unknown card appends nothing and
// returns billing.ErrCardNotFound.
func (s *Store) AddPurchase(ctx context.Context, req billing.PurchaseRequest) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var card *core.Card
	if req.PaymentMethod == core.CreditCard && req.Type != core.Income {
		for i := range s.state.Cards {
			if s.state.Cards[i].ID == req.CardID {
				card = &s.state.Cards[i]
				break
			}
		}
	}

	txs, err := billing.Materialize(req, card)
	if err != nil {
		return nil, err
	}

	s.state.Transactions = append(s.state.Transactions, txs...)
	if err := s.commit(ctx, "transactions.create", transactionIDs(txs)); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Purchase recorded",
		"description", req.Description,
		"method", string(req.PaymentMethod),
		"records", len(txs),
		"user", req.User)
	return txs, nil
}

// TransactionUpdate carries the free-form fields an existing record
// may change. Type, payment method and card/account references are
// immutable after creation.
type TransactionUpdate struct {
	Description *string
	Amount      *float64
	CategoryID  *string
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, upd TransactionUpdate) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(id)
	if idx < 0 {
		return core.Transaction{}, ErrTransactionNotFound
	}

	tx := &s.state.Transactions[idx]
	if upd.Description != nil {
		if *upd.Description == "" {
			return core.Transaction{}, core.ErrEmptyDescription
		}
		tx.Description = *upd.Description
	}
	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return core.Transaction{}, core.ErrInvalidAmount
		}
		tx.Amount = *upd.Amount
	}
	if upd.CategoryID != nil {
		tx.CategoryID = *upd.CategoryID
	}

	if err := s.commit(ctx, "transactions.update", []string{id}); err != nil {
		return core.Transaction{}, err
	}
	return *tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(id)
	if idx < 0 {
		return ErrTransactionNotFound
	}
	s.state.Transactions = append(s.state.Transactions[:idx], s.state.Transactions[idx+1:]...)
	return s.commit(ctx, "transactions.delete", []string{id})
}

// ToggleStatus flips one transaction between PENDING and COMPLETED.
// Sibling installments are never touched.
func (s *Store) ToggleStatus(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(id)
	if idx < 0 {
		return core.Transaction{}, ErrTransactionNotFound
	}
	tx := &s.state.Transactions[idx]
	tx.Status = tx.Status.Toggled()

	if err := s.commit(ctx, "transactions.toggle", []string{id}); err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Transaction status toggled", "id", id, "status", string(tx.Status))
	return *tx, nil
}

func (s *Store) AddCard(ctx context.Context, card core.Card) (core.Card, error) {
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	s.state.Cards = append(s.state.Cards, card)
	if err := s.commit(ctx, "cards.create", []string{card.ID}); err != nil {
		return core.Card{}, err
	}
	return card, nil
}

// DeleteCard removes the card only. Transactions keep their cardId;
// lookups simply stop resolving (weak references, no cascade).
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.state.Cards {
		if c.ID == id {
			s.state.Cards = append(s.state.Cards[:i], s.state.Cards[i+1:]...)
			return s.commit(ctx, "cards.delete", []string{id})
		}
	}
	return billing.ErrCardNotFound
}

func (s *Store) AddAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	s.state.Accounts = append(s.state.Accounts, acc)
	if err := s.commit(ctx, "accounts.create", []string{acc.ID}); err != nil {
		return core.Account{}, err
	}
	return acc, nil
}

func (s *Store) UpdateAccountBalance(ctx context.Context, id string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Accounts {
		if s.state.Accounts[i].ID == id {
			s.state.Accounts[i].Balance = balance
			return s.commit(ctx, "accounts.update", []string{id})
		}
	}
	return ErrAccountNotFound
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.state.Accounts {
		if a.ID == id {
			s.state.Accounts = append(s.state.Accounts[:i], s.state.Accounts[i+1:]...)
			return s.commit(ctx, "accounts.delete", []string{id})
		}
	}
	return ErrAccountNotFound
}

func (s *Store) AddCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	s.state.Categories = append(s.state.Categories, cat)
	if err := s.commit(ctx, "categories.create", []string{cat.ID}); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.state.Categories {
		if c.ID == id {
			s.state.Categories = append(s.state.Categories[:i], s.state.Categories[i+1:]...)
			return s.commit(ctx, "categories.delete", []string{id})
		}
	}
	return ErrCategoryNotFound
}

// CardByID resolves a weak card reference. A missing card is a normal
// outcome, not an error: views render a neutral state for it.
func (s *Store) CardByID(id string) (core.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return core.Card{}, false
}

func (s *Store) AccountByID(id string) (core.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.state.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return core.Account{}, false
}

func (s *Store) CategoryByID(id string) (core.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

func (s *Store) transactionIndex(id string) int {
	for i, t := range s.state.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func transactionIDs(txs []core.Transaction) []string {
	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}
	return ids
}
