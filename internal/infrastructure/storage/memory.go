package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// Ensure MemoryObjectStorage implements ObjectStorage
var _ catalogapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. Used in development and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryObjectStorage creates an empty store. URLs are baseURL + "/" + key.
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &MemoryObjectStorage{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put reads body fully and stores it under key
func (m *MemoryObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = Object{Data: data, ContentType: contentType}
	m.mu.Unlock()
	return nil
}

// Delete removes key
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// URL returns the public URL of key
func (m *MemoryObjectStorage) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	return m.baseURL + "/" + key, nil
}

// Get returns the stored object
func (m *MemoryObjectStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
