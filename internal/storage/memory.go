package storage

import (
	"context"
	"errors"
	"sync"
)

var errQuota = errors.New("quota exceeded")

// Memory is an in-process Store. A positive Quota caps the total bytes of
// keys and values, the way browser storage does.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	size  int
	Quota int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(key, value)
}

// Update runs fn with the store locked.
func (m *Memory) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, found := m.data[key]
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	return m.setLocked(key, next)
}

func (m *Memory) setLocked(key, value string) error {
	size := m.size + len(value)
	if old, ok := m.data[key]; ok {
		size -= len(old)
	} else {
		size += len(key)
	}
	if m.Quota > 0 && size > m.Quota {
		return failure("set", key, errQuota)
	}
	m.data[key] = value
	m.size = size
	return nil
}

// Keys returns the number of stored keys.
func (m *Memory) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) Ping(context.Context) error { return nil }
