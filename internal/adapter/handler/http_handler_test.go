package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rl1809/fishstock/internal/adapter/storage"
	"github.com/rl1809/fishstock/internal/auth"
	"github.com/rl1809/fishstock/internal/core/domain"
	"github.com/rl1809/fishstock/internal/core/service"
	"github.com/rl1809/fishstock/internal/logging"
)

// Mock BlobStore with switchable failure
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
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
	m.blobs[key] = blob
	return nil
}

func (m *memBlobStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *memBlobStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type testServer struct {
	blobs   *memBlobStore
	handler *HTTPHandler
	routes  http.Handler
}

func newTestServer(t *testing.T, verifier *auth.Verifier) *testServer {
	t.Helper()
	blobs := &memBlobStore{blobs: make(map[string][]byte)}
	docs := storage.NewDocumentAdapter(blobs, storage.NewIDGenerator())
	logger := logging.Discard()

	h := NewHTTPHandler(
		service.NewInventoryService(docs, logger),
		service.NewTransactionService(docs, logger),
		service.NewReportService(docs, docs),
		storage.KindBlobs,
		blobs,
		logger,
	)
	return &testServer{blobs: blobs, handler: h, routes: h.Routes(verifier)}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.routes.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCollections_EmptyList(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/inventory", "/transactions"} {
		rec := srv.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("%s: expected [], got %s", path, body)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: expected json content type, got %s", path, ct)
		}
		if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
			t.Errorf("%s: expected permissive CORS, got %q", path, origin)
		}
	}
}

func TestInventory_AddUpdateDelete(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{
		"action": "add",
		"item":   map[string]interface{}{"name": "King Jelly", "qty": 50, "buyPrice": 5000},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	item := decode[domain.InventoryItem](t, rec)
	if item.ID == 0 || item.Name != "King Jelly" {
		t.Fatalf("unexpected canonical record %+v", item)
	}

	item.Qty = 48
	rec = srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{"action": "update", "item": item})
	if rec.Code != http.StatusOK || !decode[OKResponse](t, rec).OK {
		t.Fatalf("expected ok update, got %d: %s", rec.Code, rec.Body.String())
	}

	items := decode[[]domain.InventoryItem](t, srv.do(t, http.MethodGet, "/inventory", nil))
	if len(items) != 1 || items[0].Qty != 48 {
		t.Fatalf("expected updated item, got %+v", items)
	}

	rec = srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{"action": "delete", "id": item.ID})
	if rec.Code != http.StatusOK || !decode[OKResponse](t, rec).OK {
		t.Fatalf("expected ok delete, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{"action": "delete", "id": 12345})
	if rec.Code != http.StatusOK {
		t.Errorf("expected ok deleting absent id, got %d", rec.Code)
	}

	items = decode[[]domain.InventoryItem](t, srv.do(t, http.MethodGet, "/inventory", nil))
	if len(items) != 0 {
		t.Errorf("expected empty inventory, got %+v", items)
	}
}

func TestInventory_AddInvalid(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, body := range []interface{}{
		map[string]interface{}{"action": "add"},
		map[string]interface{}{"action": "add", "item": map[string]interface{}{"qty": 1}},
		map[string]interface{}{"action": "add", "item": map[string]interface{}{"name": "X", "qty": -1}},
	} {
		rec := srv.do(t, http.MethodPost, "/inventory", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %v, got %d", body, rec.Code)
			continue
		}
		if msg := decode[ErrorResponse](t, rec).Error; !strings.HasPrefix(msg, "Invalid item") {
			t.Errorf("expected Invalid item message, got %q", msg)
		}
	}
}

func TestTransactions_AddAndFilter(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, tx := range []domain.Transaction{
		{Item: "King Jelly", Qty: 2, Price: 10000, Status: domain.StatusPaid, Date: "2025-12-01"},
		{Item: "Megalodon", Qty: 1, Price: 20000, Status: domain.StatusWaiting, Date: "2025-12-02"},
	} {
		rec := srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{"action": "add", "tx": tx})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if created := decode[domain.Transaction](t, rec); created.ID == 0 {
			t.Error("expected assigned id")
		}
	}

	txs := decode[[]domain.Transaction](t, srv.do(t, http.MethodGet, "/transactions?date=2025-12-02", nil))
	if len(txs) != 1 || txs[0].Item != "Megalodon" {
		t.Errorf("expected only the 2025-12-02 sale, got %+v", txs)
	}

	txs = decode[[]domain.Transaction](t, srv.do(t, http.MethodGet, "/transactions?status=All", nil))
	if len(txs) != 2 {
		t.Errorf("expected status=All to list both sales, got %+v", txs)
	}

	txs = decode[[]domain.Transaction](t, srv.do(t, http.MethodGet, "/transactions?status=Paid&q=jelly", nil))
	if len(txs) != 1 || txs[0].Item != "King Jelly" {
		t.Errorf("expected only the paid King Jelly sale, got %+v", txs)
	}
}

func TestTransactions_AddInvalid(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{
		"action": "add",
		"tx":     map[string]interface{}{"item": "Megalodon", "qty": 1},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decode[ErrorResponse](t, rec).Error; !strings.HasPrefix(msg, "Invalid transaction") {
		t.Errorf("expected Invalid transaction message, got %q", msg)
	}
}

func TestTransactions_UpdateWithoutStatus(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{
		"action": "add",
		"tx":     map[string]interface{}{"item": "Megalodon", "qty": 1, "price": 20000, "date": "2025-12-02"},
	})
	created := decode[domain.Transaction](t, rec)
	created.Status = ""

	rec = srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{"action": "update", "tx": created})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty status, got %d", rec.Code)
	}

	txs := decode[[]domain.Transaction](t, srv.do(t, http.MethodGet, "/transactions", nil))
	if len(txs) != 1 || txs[0].Status != domain.StatusPaid {
		t.Errorf("expected stored sale unchanged, got %+v", txs)
	}
}

func TestCollections_UnknownActionAndBadBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{"action": "refund"})
	if rec.Code != http.StatusBadRequest || decode[ErrorResponse](t, rec).Error != "Unknown action" {
		t.Errorf("expected 400 Unknown action, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/inventory", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestCollections_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, nil)
	name := strings.Repeat("x", maxBodyBytes)

	rec := srv.do(t, http.MethodPost, "/inventory", `{"action":"add","item":{"name":"`+name+`","qty":1}}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if msg := decode[ErrorResponse](t, rec).Error; msg != "Request body too large" {
		t.Errorf("unexpected message %q", msg)
	}

	items := decode[[]domain.InventoryItem](t, srv.do(t, http.MethodGet, "/inventory", nil))
	if len(items) != 0 {
		t.Errorf("expected nothing stored, got %d items", len(items))
	}
}

func TestCollections_Methods(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodOptions, "/inventory", nil)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("expected empty 200 for OPTIONS, got %d %q", rec.Code, rec.Body.String())
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "POST") {
		t.Errorf("expected allowed methods header, got %q", methods)
	}

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := srv.do(t, method, "/transactions", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, rec.Code)
		}
	}
}

func TestCollections_BackendFailure(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.blobs.fail(errors.New("blob store unreachable"))

	rec := srv.do(t, http.MethodGet, "/inventory", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decode[ErrorResponse](t, rec).Error; !strings.Contains(msg, "blob store unreachable") {
		t.Errorf("expected backend error message, got %q", msg)
	}

	rec = srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{
		"action": "add",
		"tx":     map[string]interface{}{"item": "X", "qty": 1, "price": 1},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on add, got %d", rec.Code)
	}
}

func TestCollections_RepeatedGetIdentical(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{
		"action": "add",
		"item":   map[string]interface{}{"name": "Tumbal", "qty": 3, "buyPrice": 1000},
	})

	first := srv.do(t, http.MethodGet, "/inventory", nil).Body.String()
	second := srv.do(t, http.MethodGet, "/inventory", nil).Body.String()
	if first != second {
		t.Errorf("expected identical responses, got %s and %s", first, second)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	health := decode[HealthResponse](t, srv.do(t, http.MethodGet, "/health", nil))
	if health.Backend != "blobs" || !health.DB.OK {
		t.Errorf("expected healthy blobs backend, got %+v", health)
	}

	srv.blobs.fail(errors.New("connection reset"))
	rec := srv.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even when unhealthy, got %d", rec.Code)
	}
	health = decode[HealthResponse](t, rec)
	if health.DB.OK || health.DB.Error != "connection reset" {
		t.Errorf("expected failing db status, got %+v", health)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPost, "/inventory", map[string]interface{}{
		"action": "add",
		"item":   map[string]interface{}{"name": "King Jelly", "qty": 48, "buyPrice": 5000},
	})
	srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{
		"action": "add",
		"tx":     map[string]interface{}{"item": "King Jelly", "qty": 2, "price": 10000, "status": "Paid"},
	})
	srv.do(t, http.MethodPost, "/transactions", map[string]interface{}{
		"action": "add",
		"tx":     map[string]interface{}{"item": "Megalodon", "qty": 1, "price": 20000, "status": "Waiting"},
	})

	rec := srv.do(t, http.MethodGet, "/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary struct {
		TotalRevenue    int64 `json:"totalRevenue"`
		TotalPaid       int64 `json:"totalPaid"`
		TotalWaiting    int64 `json:"totalWaiting"`
		TotalAssetValue int64 `json:"totalAssetValue"`
		Items           []struct {
			Item    string `json:"item"`
			Revenue int64  `json:"revenue"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if summary.TotalRevenue != 40000 || summary.TotalPaid != 20000 || summary.TotalWaiting != 20000 {
		t.Errorf("unexpected totals %+v", summary)
	}
	if summary.TotalAssetValue != 240000 {
		t.Errorf("expected asset value 240000, got %d", summary.TotalAssetValue)
	}
	if len(summary.Items) != 2 {
		t.Errorf("expected two rollup rows, got %+v", summary.Items)
	}
}

func TestRoutes_NetlifyPrefix(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/.netlify/functions/inventory", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 on legacy path, got %d", rec.Code)
	}
}

func TestRoutes_RequestID(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	rec = srv.do(t, http.MethodGet, "/health", nil, RequestIDHeader, "abc-123")
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected echoed request id, got %q", got)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	verifier := auth.NewVerifier("secret", "fishstock")
	srv := newTestServer(t, verifier)
	body := map[string]interface{}{
		"action": "add",
		"item":   map[string]interface{}{"name": "X", "qty": 1, "buyPrice": 1},
	}

	if rec := srv.do(t, http.MethodGet, "/inventory", nil); rec.Code != http.StatusOK {
		t.Errorf("expected open reads, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/inventory", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	token, err := verifier.Issue("cashier", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if rec := srv.do(t, http.MethodPost, "/inventory", body, "Authorization", "Bearer "+token); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}
