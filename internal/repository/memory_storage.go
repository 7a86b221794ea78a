package repository

import (
	"context"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"sync"
)

// MemoryCartStorage keeps encoded carts in process memory. Values go through the same
// JSON encoding as the durable storages so round-trip behaviour is identical.
type MemoryCartStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{values: make(map[string][]byte)}
}

var _ port.CartStorage = (*MemoryCartStorage)(nil)

func (m *MemoryCartStorage) Load(_ context.Context, key string) ([]domain.CartLine, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	data, ok := m.values[key]
	m.mu.Unlock()

	if !ok {
		return nil, port.ErrCartNotFound
	}

	lines, err := DecodeLines(data)
	if err != nil {
		return nil, fmt.Errorf("DecodeLines: %w", err)
	}

	return lines, nil
}

func (m *MemoryCartStorage) Save(_ context.Context, key string, lines []domain.CartLine) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	data, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("EncodeLines: %w", err)
	}

	m.mu.Lock()
	m.values[key] = data
	m.mu.Unlock()

	return nil
}

func (m *MemoryCartStorage) Delete(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[key]
	delete(m.values, key)

	return ok, nil
}

// Put stores a raw value, bypassing encoding. Used to seed corrupted entries.
func (m *MemoryCartStorage) Put(key string, raw []byte) {
	m.mu.Lock()
	m.values[key] = raw
	m.mu.Unlock()
}
