package storage

import (
	"context"
	"errors"
	"sync"
)

// UpdateFunc computes the next value of a key from its current one. found is
// false when the key has never been written. A returned error aborts the
// update and is passed back unchanged.
type UpdateFunc func(current string, found bool) (string, error)

// Updater is a Store that can read-modify-write one key atomically.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Update applies fn to key so that concurrent updates of the same key never
// overwrite each other. Stores without their own Updater are serialised per
// key inside this process.
func Update(ctx context.Context, s Store, key string, fn UpdateFunc) error {
	if u, ok := s.(Updater); ok {
		return u.Update(ctx, key, fn)
	}
	unlock := processLocks.lock(key)
	defer unlock()
	return getThenSet(ctx, s, key, fn)
}

func getThenSet(ctx context.Context, s Store, key string, fn UpdateFunc) error {
	current, err := s.Get(ctx, key)
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}

var processLocks = newKeyedMutex()

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
