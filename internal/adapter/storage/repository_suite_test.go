package storage

import (
	"context"
	"testing"

	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/port"
)

// exerciseRepository runs the CRUD contract every backend must honour.
func exerciseRepository(t *testing.T, repo port.SyncBoundary) {
	t.Helper()
	ctx := context.Background()

	items, err := repo.ListInventory(ctx)
	if err != nil {
		t.Fatalf("ListInventory failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil inventory, got %v", items)
	}

	jelly, err := repo.AddInventory(ctx, domain.InventoryItem{Name: "King Jelly", Qty: 50, BuyPrice: 5000})
	if err != nil {
		t.Fatalf("AddInventory failed: %v", err)
	}
	if jelly.ID == 0 {
		t.Fatal("expected assigned id")
	}
	shark, err := repo.AddInventory(ctx, domain.InventoryItem{Name: "Megalodon", Qty: 10, BuyPrice: 15000})
	if err != nil {
		t.Fatalf("AddInventory failed: %v", err)
	}
	if shark.ID == jelly.ID {
		t.Fatal("expected unique ids")
	}

	jelly.Qty = 48
	if err := repo.UpdateInventory(ctx, jelly); err != nil {
		t.Fatalf("UpdateInventory failed: %v", err)
	}
	if err := repo.UpdateInventory(ctx, domain.InventoryItem{ID: 42, Name: "Ghost"}); err != nil {
		t.Fatalf("UpdateInventory of absent id should no-op, got: %v", err)
	}

	items, _ = repo.ListInventory(ctx)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != jelly.ID || items[0].Qty != 48 {
		t.Errorf("expected updated King Jelly first, got %+v", items[0])
	}

	again, _ := repo.ListInventory(ctx)
	if len(again) != len(items) || again[0] != items[0] || again[1] != items[1] {
		t.Errorf("expected repeated list to be identical, got %v then %v", items, again)
	}

	if err := repo.DeleteInventory(ctx, shark.ID); err != nil {
		t.Fatalf("DeleteInventory failed: %v", err)
	}
	if err := repo.DeleteInventory(ctx, 42); err != nil {
		t.Fatalf("DeleteInventory of absent id should no-op, got: %v", err)
	}
	items, _ = repo.ListInventory(ctx)
	if len(items) != 1 || items[0].ID != jelly.ID {
		t.Errorf("expected only King Jelly left, got %+v", items)
	}

	tx, err := repo.AddTransaction(ctx, domain.Transaction{
		Item: "King Jelly", Qty: 2, Price: 10000, Status: domain.StatusPaid, Date: "2025-12-01",
	})
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if tx.ID == 0 {
		t.Fatal("expected assigned transaction id")
	}

	tx.Status = domain.StatusWaiting
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 1 || txs[0] != tx {
		t.Errorf("expected %+v, got %+v", tx, txs)
	}

	if err := repo.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	txs, _ = repo.ListTransactions(ctx)
	if len(txs) != 0 {
		t.Errorf("expected no transactions, got %+v", txs)
	}
}
