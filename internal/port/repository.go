package port

import (
	"context"

	"github.com/rl1809/fishstock/internal/core/domain"
)

type InventoryRepository interface {
	// ListInventory returns every item, or an empty slice when none exist
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)

	// AddInventory assigns an id and returns the canonical record
	AddInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)

	// UpdateInventory replaces the record with the same id; absent ids are a no-op
	UpdateInventory(ctx context.Context, item domain.InventoryItem) error

	// DeleteInventory removes the record; absent ids are a no-op
	DeleteInventory(ctx context.Context, id int64) error
}

type TransactionRepository interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx domain.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}

// SyncBoundary is the request/response surface the client-side store talks to.
// Server-side repositories satisfy it too, so a store can run in-process.
type SyncBoundary interface {
	InventoryRepository
	TransactionRepository
}
