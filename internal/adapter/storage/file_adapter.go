package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileAdapter keeps every collection in one local JSON file, keyed by
// "{namespace}:{key}". It exists for development only.
type FileAdapter struct {
	path      string
	namespace string
	logger    logrus.FieldLogger
	mu        sync.Mutex
}

func NewFileAdapter(path, namespace string, logger logrus.FieldLogger) *FileAdapter {
	return &FileAdapter{path: path, namespace: namespace, logger: logger}
}

func (f *FileAdapter) key(key string) string {
	return f.namespace + ":" + key
}

// readAll treats a missing, unreadable or corrupt file as empty.
func (f *FileAdapter) readAll() map[string]json.RawMessage {
	docs := make(map[string]json.RawMessage)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).WithField("path", f.path).Warn("store file unreadable, starting empty")
		}
		return docs
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		f.logger.WithError(err).WithField("path", f.path).Warn("store file corrupt, starting empty")
		return make(map[string]json.RawMessage)
	}
	return docs
}

func (f *FileAdapter) writeAll(docs map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, ok := f.readAll()[f.key(key)]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (f *FileAdapter) Set(ctx context.Context, key string, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	docs := f.readAll()
	docs[f.key(key)] = blob
	return f.writeAll(docs)
}

func (f *FileAdapter) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	docs := f.readAll()
	next, err := fn(docs[f.key(key)])
	if err != nil || next == nil {
		return err
	}
	docs[f.key(key)] = next
	return f.writeAll(docs)
}

// Ping checks the store directory can be created.
func (f *FileAdapter) Ping(ctx context.Context) error {
	return os.MkdirAll(filepath.Dir(f.path), 0o755)
}
