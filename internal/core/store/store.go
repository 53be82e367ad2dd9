// Package store holds the client-side view of inventory and transactions and
// keeps it reconciled with the Sync Boundary. Local state only changes
// through the operations below.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/fishstock/internal/core/aggregate"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/port"
)

type Store struct {
	sync   port.SyncBoundary
	notify Notifier
	now    func() time.Time

	// mu guards the collections and is never held across a Sync Boundary call
	mu           sync.Mutex
	inventory    []domain.InventoryItem
	transactions []domain.Transaction
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notify = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(boundary port.SyncBoundary, opts ...Option) *Store {
	s := &Store{
		sync:   boundary,
		notify: discardNotifier{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces local state with the server's collections.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.sync.ListInventory(ctx)
	if err != nil {
		return s.fail("listInventory", err)
	}
	txs, err := s.sync.ListTransactions(ctx)
	if err != nil {
		return s.fail("listTransactions", err)
	}

	s.mu.Lock()
	s.inventory = items
	s.transactions = txs
	s.mu.Unlock()
	return nil
}

func (s *Store) Inventory() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InventoryItem{}, s.inventory...)
}

func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction{}, s.transactions...)
}

func (s *Store) Stats() aggregate.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.Compute(s.inventory, s.transactions)
}

func (s *Store) ItemRevenue() []aggregate.ItemRevenue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.RollupByItem(s.transactions)
}

func (s *Store) FilterTransactions(f aggregate.TransactionFilter) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.FilterTransactions(s.transactions, f)
}

func (s *Store) FilterInventory(query string) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate.FilterInventory(s.inventory, query)
}

func (s *Store) fail(op string, err error) error {
	serr := &SyncError{Op: op, Err: err}
	s.notify.Notify(Notice{Kind: NoticeSyncFailure, Message: serr.Error()})
	return serr
}

// findItem returns the index of the first inventory item matching name.
// Callers hold mu.
func (s *Store) findItem(name string) int {
	for i, item := range s.inventory {
		if item.Matches(name) {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfItem(id int64) int {
	for i, item := range s.inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfTransaction(id int64) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// adjustQty adds delta to the item's local quantity and returns the result.
func (s *Store) adjustQty(id int64, delta int) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfItem(id)
	if i < 0 {
		return domain.InventoryItem{}, false
	}
	s.inventory[i].Qty += delta
	return s.inventory[i], true
}

// AddTransaction records a sale. When the sale names an inventory item with
// enough stock, that item's quantity is decremented first and persisted once
// the transaction is accepted. A failed transaction submit rolls the
// decrement back. A failed inventory update restores the local quantity and
// returns the recorded transaction together with the error.
func (s *Store) AddTransaction(ctx context.Context, candidate domain.Transaction) (domain.Transaction, error) {
	candidate.ID = 0
	candidate = candidate.Normalize(s.now())
	if err := candidate.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	var deducted domain.InventoryItem
	decremented := false
	if i := s.findItem(candidate.Item); i < 0 {
		s.mu.Unlock()
		s.notify.Notify(unmatchedNotice(candidate.Item))
	} else if s.inventory[i].Qty < candidate.Qty {
		available := s.inventory[i].Qty
		s.mu.Unlock()
		s.notify.Notify(shortfallNotice(candidate.Item, candidate.Qty, available))
	} else {
		s.inventory[i].Qty -= candidate.Qty
		deducted = s.inventory[i]
		decremented = true
		s.mu.Unlock()
	}

	created, err := s.sync.AddTransaction(ctx, candidate)
	if err != nil {
		if decremented {
			s.adjustQty(deducted.ID, candidate.Qty)
		}
		return domain.Transaction{}, s.fail("addTransaction", err)
	}

	s.mu.Lock()
	s.transactions = append(s.transactions, created)
	s.mu.Unlock()

	if !decremented {
		return created, nil
	}

	if err := s.sync.UpdateInventory(ctx, deducted); err != nil {
		s.adjustQty(deducted.ID, candidate.Qty)
		return created, s.fail("updateInventory", err)
	}
	return created, nil
}

func (s *Store) AddInventoryItem(ctx context.Context, candidate domain.InventoryItem) (domain.InventoryItem, error) {
	candidate.ID = 0
	if err := candidate.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}

	created, err := s.sync.AddInventory(ctx, candidate)
	if err != nil {
		return domain.InventoryItem{}, s.fail("addInventory", err)
	}

	s.mu.Lock()
	s.inventory = append(s.inventory, created)
	s.mu.Unlock()
	return created, nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.sync.UpdateInventory(ctx, item); err != nil {
		return s.fail("updateInventory", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfItem(item.ID); i >= 0 {
		s.inventory[i] = item
	}
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.sync.UpdateTransaction(ctx, tx); err != nil {
		return s.fail("updateTransaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfTransaction(tx.ID); i >= 0 {
		s.transactions[i] = tx
	}
	return nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id int64) error {
	if err := s.sync.DeleteInventory(ctx, id); err != nil {
		return s.fail("deleteInventory", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfItem(id); i >= 0 {
		s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.sync.DeleteTransaction(ctx, id); err != nil {
		return s.fail("deleteTransaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfTransaction(id); i >= 0 {
		s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	}
	return nil
}

// ToggleTransactionStatus flips Paid and Waiting and returns the updated record.
func (s *Store) ToggleTransactionStatus(ctx context.Context, id int64) (domain.Transaction, error) {
	s.mu.Lock()
	i := s.indexOfTransaction(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Transaction{}, domain.ErrNotFound
	}
	tx := s.transactions[i]
	s.mu.Unlock()

	tx.Status = tx.Status.Toggle()
	if err := s.UpdateTransaction(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}
