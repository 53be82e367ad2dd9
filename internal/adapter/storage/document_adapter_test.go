package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rl1809/fishstock/internal/core/domain"
)

// Mock BlobStore without atomic updates
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
	sets  int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.blobs[key], nil
}

func (m *memBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sets++
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

func TestDocumentAdapter_Contract(t *testing.T) {
	exerciseRepository(t, NewDocumentAdapter(newMemBlobStore(), NewIDGenerator()))
}

func TestDocumentAdapter_ReadsExistingDocument(t *testing.T) {
	store := newMemBlobStore()
	store.blobs[InventoryKey] = []byte(`[{"id":1,"name":"King Jelly","qty":50,"buyPrice":5000}]`)
	adapter := NewDocumentAdapter(store, NewIDGenerator())

	items, err := adapter.ListInventory(context.Background())
	if err != nil {
		t.Fatalf("ListInventory failed: %v", err)
	}
	want := domain.InventoryItem{ID: 1, Name: "King Jelly", Qty: 50, BuyPrice: 5000}
	if len(items) != 1 || items[0] != want {
		t.Errorf("expected %+v, got %+v", want, items)
	}
}

func TestDocumentAdapter_CorruptDocument(t *testing.T) {
	store := newMemBlobStore()
	store.blobs[TransactionsKey] = []byte(`{not json`)
	adapter := NewDocumentAdapter(store, NewIDGenerator())

	if _, err := adapter.ListTransactions(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestDocumentAdapter_NoWriteForAbsentID(t *testing.T) {
	store := newMemBlobStore()
	adapter := NewDocumentAdapter(store, NewIDGenerator())
	ctx := context.Background()

	if err := adapter.UpdateTransaction(ctx, domain.Transaction{ID: 7, Item: "X"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := adapter.DeleteInventory(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.sets != 0 {
		t.Errorf("expected no writes, got %d", store.sets)
	}
}

func TestDocumentAdapter_BackendError(t *testing.T) {
	boom := errors.New("blob store down")
	store := newMemBlobStore()
	store.err = boom
	adapter := NewDocumentAdapter(store, NewIDGenerator())

	_, err := adapter.AddInventory(context.Background(), domain.InventoryItem{Name: "X"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped backend error, got: %v", err)
	}
}

func TestDocumentAdapter_ConcurrentAdds(t *testing.T) {
	store := newMemBlobStore()
	adapter := NewDocumentAdapter(store, NewIDGenerator())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := adapter.AddTransaction(ctx, domain.Transaction{Item: "Tumbal", Qty: 1, Price: 3500, Status: domain.StatusPaid}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	txs, _ := adapter.ListTransactions(ctx)
	if len(txs) != 50 {
		t.Errorf("expected 50 transactions, got %d", len(txs))
	}
}
