package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/logging"
)

func TestFileAdapter_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	exerciseRepository(t, NewDocumentAdapter(NewFileAdapter(path, "miso_store", logging.Discard()), NewIDGenerator()))
}

func TestFileAdapter_NamespacedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	adapter := NewFileAdapter(path, "miso_store", logging.Discard())
	ctx := context.Background()

	if err := adapter.Set(ctx, "inventory", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	var docs map[string]json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("store file is not json: %v", err)
	}
	if _, ok := docs["miso_store:inventory"]; !ok {
		t.Errorf("expected key miso_store:inventory, got %v", docs)
	}
}

func TestFileAdapter_MissingKey(t *testing.T) {
	adapter := NewFileAdapter(filepath.Join(t.TempDir(), "store.json"), "ns", logging.Discard())

	blob, err := adapter.Get(context.Background(), "transactions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blob != nil {
		t.Errorf("expected nil blob, got %s", blob)
	}
}

func TestFileAdapter_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	adapter := NewFileAdapter(path, "ns", logging.Discard())
	ctx := context.Background()

	blob, err := adapter.Get(ctx, "inventory")
	if err != nil || blob != nil {
		t.Fatalf("expected empty read, got %s, %v", blob, err)
	}

	// the next write replaces the corrupt file
	if err := adapter.Set(ctx, "inventory", []byte(`[{"id":1,"name":"X","qty":1,"buyPrice":1}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	blob, _ = adapter.Get(ctx, "inventory")
	if blob == nil {
		t.Error("expected stored blob after rewrite")
	}
}

func TestFileAdapter_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	docs := NewDocumentAdapter(NewFileAdapter(path, "ns", logging.Discard()), NewIDGenerator())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := docs.AddInventory(ctx, domain.InventoryItem{Name: "Tumbal", Qty: 1}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	items, _ := docs.ListInventory(ctx)
	if len(items) != 20 {
		t.Errorf("expected 20 items, got %d", len(items))
	}
}
