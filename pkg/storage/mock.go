package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/bingo-engine/pkg/trigger"
)

type inventoryKey struct {
	game   uuid.UUID
	player uuid.UUID
}

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu          sync.RWMutex
	inventories map[inventoryKey][]string
	catalogs    map[string]*trigger.Catalog
	pingError   error
	recordError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		inventories: make(map[inventoryKey][]string),
		catalogs:    make(map[string]*trigger.Catalog),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetRecordError configures the mock to fail when recording items
func (m *MockStorage) SetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordError = err
}

// AddCatalog registers a catalog under a filename
func (m *MockStorage) AddCatalog(filename string, c *trigger.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[filename] = c
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// RecordItem mocks appending an item to an inventory
func (m *MockStorage) RecordItem(ctx context.Context, gameID, playerID uuid.UUID, item string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordError != nil {
		return m.recordError
	}
	key := inventoryKey{gameID, playerID}
	m.inventories[key] = append(m.inventories[key], item)
	return nil
}

// LoadInventory mocks loading an inventory
func (m *MockStorage) LoadInventory(ctx context.Context, gameID, playerID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.inventories[inventoryKey{gameID, playerID}]
	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}

// ClearInventory mocks clearing an inventory
func (m *MockStorage) ClearInventory(ctx context.Context, gameID, playerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inventories, inventoryKey{gameID, playerID})
	return nil
}

// LoadTriggerCatalog returns a catalog added with AddCatalog
func (m *MockStorage) LoadTriggerCatalog(ctx context.Context, filename string) (*trigger.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.catalogs[filename]
	if !ok {
		return nil, fmt.Errorf("trigger file not found: %s", filename)
	}
	return c, nil
}

// ListTriggerFiles lists the filenames added with AddCatalog
func (m *MockStorage) ListTriggerFiles(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.catalogs))
	for name := range m.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
