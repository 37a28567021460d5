package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// Backend is an in-memory implementation of the sitecontent.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Upload stores content directly in memory
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	return nil
}

// Download opens content stored in memory
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, sitecontent.ErrAssetNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes content from memory
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return sitecontent.ErrAssetNotFound
	}

	delete(b.objects, key)
	return nil
}

// Exists reports whether content is stored under the given key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[key]
	return exists, nil
}

// Len reports the number of stored objects. Test helper.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
