package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/storage"
)

// Message is one stored contact submission.
type Message struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidationError blocks a submit.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range Fields {
		if msg, ok := e.Errors[f]; ok {
			parts = append(parts, msg)
		}
	}
	return "contact form invalid: " + strings.Join(parts, "; ")
}

type Service struct {
	bus      *events.Bus
	notifier Notifier
	now      func() time.Time
}

// NewService wires the submit side effects. notifier may be nil.
func NewService(bus *events.Bus, notifier Notifier) *Service {
	return &Service{bus: bus, notifier: notifier, now: time.Now}
}

// Submit revalidates f, then appends it to the visitor's messages, records
// the visitor's name and announces it. Concurrent submits for one store all
// land in the list. Storage failures are logged only.
func (s *Service) Submit(ctx context.Context, store storage.Store, visitorID string, f Form) (Message, error) {
	if errs := Validate(f); !errs.Valid() {
		return Message{}, &ValidationError{Errors: errs}
	}

	f = f.Trimmed()
	msg := Message{
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		CreatedAt: s.now().UTC(),
	}

	err := storage.Update(ctx, store, storage.KeyMessages, func(raw string, found bool) (string, error) {
		data, err := json.Marshal(append(decodeMessages(raw, found), msg))
		return string(data), err
	})
	if err != nil {
		log.Printf("[contact] failed to store message from %s: %v", msg.Email, err)
	}

	storage.Put(ctx, store, storage.KeyVisitorName, msg.Name)
	if s.bus != nil {
		s.bus.Publish(events.Event{Topic: events.VisitorNameChanged, Visitor: visitorID, Value: msg.Name})
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, visitorID, msg); err != nil {
			log.Printf("[contact] notify failed for %s: %v", msg.Email, err)
		}
	}
	return msg, nil
}

// Messages reads the stored list; unreadable data counts as empty.
func Messages(ctx context.Context, store storage.Store) []Message {
	raw, ok := storage.Lookup(ctx, store, storage.KeyMessages)
	return decodeMessages(raw, ok)
}

func decodeMessages(raw string, found bool) []Message {
	if !found {
		return []Message{}
	}
	var list []Message
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		if err != nil {
			log.Printf("[contact] stored messages unreadable: %v", err)
		}
		return []Message{}
	}
	return list
}

// Summary is a one-line description used in logs and mail subjects.
func (m Message) Summary() string {
	return fmt.Sprintf("%s <%s>", m.Name, m.Email)
}
