// Package storage is the key-value persistence behind every visitor's state:
// theme, names, weather city, contact messages and the edited project list.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrFailure marks a backend that could not serve the call (quota,
	// disabled storage, connection loss).
	ErrFailure = errors.New("storage: unavailable")
)

// Recognised keys.
const (
	KeyTheme         = "theme"
	KeyWeatherCity   = "weatherCity"
	KeyVisitorName   = "visitorName"
	KeyPortfolioUser = "portfolioUserName"
	KeyMessages      = "messages"
	KeyProjects      = "portfolio_projects"
)

// Store is a synchronous string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Lookup reads key and treats any failure as absent.
func Lookup(ctx context.Context, s Store, key string) (string, bool) {
	v, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[storage] get %s: %v", key, err)
		}
		return "", false
	}
	return v, true
}

// Put writes key and only logs a failure.
func Put(ctx context.Context, s Store, key, value string) {
	if err := s.Set(ctx, key, value); err != nil {
		log.Printf("[storage] set %s: %v", key, err)
	}
}

func failure(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrFailure, op, key, err)
}
