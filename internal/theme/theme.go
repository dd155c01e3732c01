// Package theme is the dark/light flag every page is rendered with.
package theme

import (
	"context"
	"sync"

	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/storage"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Parse accepts "dark" or "light"; anything else is dark.
func Parse(s string) Theme {
	if Theme(s) == Light {
		return Light
	}
	return Dark
}

func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

func (t Theme) IsDark() bool { return t != Light }

// Palette is the document colouring for a theme.
type Palette struct {
	Background string
	Foreground string
}

func (t Theme) Palette() Palette {
	if t == Light {
		return Palette{Background: "#f9fafb", Foreground: "#111827"}
	}
	return Palette{Background: "#000000", Foreground: "#ffffff"}
}

// State holds one visitor's theme, writes it through to storage and tells
// subscribers about changes.
type State struct {
	mu        sync.Mutex
	current   Theme
	store     storage.Store
	observers *events.Bus
}

// Load reads the stored theme once; missing or invalid values mean dark.
func Load(ctx context.Context, store storage.Store) *State {
	raw, _ := storage.Lookup(ctx, store, storage.KeyTheme)
	return &State{
		current:   Parse(raw),
		store:     store,
		observers: events.NewBus(),
	}
}

// Save writes t to store and, unlike State, reports a failed write.
func Save(ctx context.Context, store storage.Store, t Theme) error {
	return store.Set(ctx, storage.KeyTheme, string(Parse(string(t))))
}

func (s *State) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Toggle flips dark and light and returns the new theme.
func (s *State) Toggle(ctx context.Context) Theme {
	s.mu.Lock()
	next := s.current.Opposite()
	s.current = next
	storage.Put(ctx, s.store, storage.KeyTheme, string(next))
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Set stores t; subscribers hear about it only when it differs.
func (s *State) Set(ctx context.Context, t Theme) {
	t = Parse(string(t))

	s.mu.Lock()
	changed := s.current != t
	s.current = t
	storage.Put(ctx, s.store, storage.KeyTheme, string(t))
	s.mu.Unlock()

	if changed {
		s.notify(t)
	}
}

// Subscribe calls fn after every change, synchronously.
func (s *State) Subscribe(fn func(Theme)) func() {
	return s.observers.Subscribe(events.ThemeChanged, func(e events.Event) {
		fn(Theme(e.Value))
	})
}

func (s *State) notify(t Theme) {
	s.observers.Publish(events.Event{Topic: events.ThemeChanged, Value: string(t)})
}
