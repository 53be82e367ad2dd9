package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/port"
)

const (
	InventoryKey    = "inventory"
	TransactionsKey = "transactions"
)

// Updater is implemented by blob stores that can apply a read-modify-write
// to one key atomically. fn returning a nil blob leaves the key untouched.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

// DocumentAdapter keeps each collection as one JSON array document in a
// BlobStore.
type DocumentAdapter struct {
	inventory    *document[domain.InventoryItem]
	transactions *document[domain.Transaction]
}

func NewDocumentAdapter(store port.BlobStore, ids *IDGenerator) *DocumentAdapter {
	return &DocumentAdapter{
		inventory: &document[domain.InventoryItem]{
			store: store,
			key:   InventoryKey,
			ids:   ids,
			getID: func(i domain.InventoryItem) int64 { return i.ID },
			setID: func(i *domain.InventoryItem, id int64) { i.ID = id },
		},
		transactions: &document[domain.Transaction]{
			store: store,
			key:   TransactionsKey,
			ids:   ids,
			getID: func(t domain.Transaction) int64 { return t.ID },
			setID: func(t *domain.Transaction, id int64) { t.ID = id },
		},
	}
}

func (d *DocumentAdapter) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return d.inventory.list(ctx)
}

func (d *DocumentAdapter) AddInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return d.inventory.add(ctx, item)
}

func (d *DocumentAdapter) UpdateInventory(ctx context.Context, item domain.InventoryItem) error {
	return d.inventory.replace(ctx, item)
}

func (d *DocumentAdapter) DeleteInventory(ctx context.Context, id int64) error {
	return d.inventory.remove(ctx, id)
}

func (d *DocumentAdapter) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return d.transactions.list(ctx)
}

func (d *DocumentAdapter) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	return d.transactions.add(ctx, tx)
}

func (d *DocumentAdapter) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	return d.transactions.replace(ctx, tx)
}

func (d *DocumentAdapter) DeleteTransaction(ctx context.Context, id int64) error {
	return d.transactions.remove(ctx, id)
}

type document[T any] struct {
	store port.BlobStore
	key   string
	ids   *IDGenerator
	getID func(T) int64
	setID func(*T, int64)

	// serialises read-modify-write for stores that are not Updaters
	mu sync.Mutex
}

func (d *document[T]) decode(blob []byte) ([]T, error) {
	records := make([]T, 0)
	if len(blob) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.key, err)
	}
	return records, nil
}

func (d *document[T]) list(ctx context.Context) ([]T, error) {
	blob, err := d.store.Get(ctx, d.key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.key, err)
	}
	return d.decode(blob)
}

// mutate runs fn over the decoded collection and stores the result unless fn
// reports no change.
func (d *document[T]) mutate(ctx context.Context, fn func([]T) ([]T, bool)) error {
	apply := func(current []byte) ([]byte, error) {
		records, err := d.decode(current)
		if err != nil {
			return nil, err
		}
		next, changed := fn(records)
		if !changed {
			return nil, nil
		}
		return json.Marshal(next)
	}

	if u, ok := d.store.(Updater); ok {
		if err := u.Update(ctx, d.key, apply); err != nil {
			return fmt.Errorf("update %s: %w", d.key, err)
		}
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.store.Get(ctx, d.key)
	if err != nil {
		return fmt.Errorf("get %s: %w", d.key, err)
	}
	next, err := apply(current)
	if err != nil || next == nil {
		return err
	}
	if err := d.store.Set(ctx, d.key, next); err != nil {
		return fmt.Errorf("set %s: %w", d.key, err)
	}
	return nil
}

func (d *document[T]) add(ctx context.Context, rec T) (T, error) {
	err := d.mutate(ctx, func(records []T) ([]T, bool) {
		for _, r := range records {
			d.ids.Observe(d.getID(r))
		}
		d.setID(&rec, d.ids.Next())
		return append(records, rec), true
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (d *document[T]) replace(ctx context.Context, rec T) error {
	id := d.getID(rec)
	return d.mutate(ctx, func(records []T) ([]T, bool) {
		for i, r := range records {
			if d.getID(r) == id {
				records[i] = rec
				return records, true
			}
		}
		return records, false
	})
}

func (d *document[T]) remove(ctx context.Context, id int64) error {
	return d.mutate(ctx, func(records []T) ([]T, bool) {
		out := records[:0]
		for _, r := range records {
			if d.getID(r) != id {
				out = append(out, r)
			}
		}
		return out, len(out) != len(records)
	})
}
