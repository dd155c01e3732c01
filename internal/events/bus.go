// Package events is an in-process observer registry for state that several
// views react to: the theme and the visitor's name.
package events

import "sync"

type Topic string

const (
	ThemeChanged       Topic = "theme"
	VisitorNameChanged Topic = "visitorName"
)

// Event carries the new value for one visitor.
type Event struct {
	Topic   Topic  `json:"topic"`
	Visitor string `json:"-"`
	Value   string `json:"value"`
}

type Handler func(Event)

type subscription struct {
	topic   Topic
	handler Handler
}

// Bus delivers every Publish synchronously, in subscription order.
type Bus struct {
	mu    sync.RWMutex
	next  int
	subs  map[int]subscription
	order []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers h for topic; an empty topic receives everything.
// The returned func removes the subscription and is safe to call twice.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscription{topic: topic, handler: h}
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish calls matching handlers outside the lock, so a handler may
// subscribe or unsubscribe.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		s := b.subs[id]
		if s.topic == "" || s.topic == e.Topic {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len is the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
