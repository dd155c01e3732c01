// Package session keeps the live state of each visitor between requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/Clawzd/portfolio/internal/contact"
	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/storage"
	"github.com/Clawzd/portfolio/internal/theme"
)

// Session is one visitor: their slice of storage, their theme and the
// contact success notice.
type Session struct {
	ID        string
	Store     storage.Store
	Theme     *theme.State
	Indicator *contact.Indicator

	bus *events.Bus

	mu          sync.Mutex
	watchers    int
	unsubscribe func()

	lastSeen time.Time
}

// Watch re-publishes the visitor's theme changes on the bus until the
// returned func is called. Open watchers share one subscription, which
// goes away with the last of them.
func (s *Session) Watch() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchers++
	if s.watchers == 1 && s.bus != nil {
		bus, id := s.bus, s.ID
		s.unsubscribe = s.Theme.Subscribe(func(t theme.Theme) {
			bus.Publish(events.Event{Topic: events.ThemeChanged, Visitor: id, Value: string(t)})
		})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.watchers--
			if s.watchers == 0 && s.unsubscribe != nil {
				s.unsubscribe()
				s.unsubscribe = nil
			}
		})
	}
}

func (s *Session) watched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchers > 0
}

type Manager struct {
	mu       sync.Mutex
	root     storage.Store
	bus      *events.Bus
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager scopes sessions inside root. Theme changes of watched sessions
// are re-published on bus tagged with the visitor id; bus may be nil.
func NewManager(root storage.Store, bus *events.Bus) *Manager {
	return &Manager{
		root:     root,
		bus:      bus,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the visitor's session, loading it on first use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
		return s
	}

	store := storage.Namespace(m.root, storage.VisitorPrefix(id))
	s := &Session{
		ID:        id,
		Store:     store,
		Theme:     theme.Load(ctx, store),
		Indicator: contact.NewIndicator(),
		bus:       m.bus,
		lastSeen:  m.now(),
	}
	m.sessions[id] = s
	return s
}

// Sweep forgets sessions not seen for idle and returns how many went.
// Watched sessions stay. Stored state stays in the backend.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.After(cutoff) || s.watched() {
			continue
		}
		s.Indicator.Stop()
		delete(m.sessions, id)
		removed++
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
