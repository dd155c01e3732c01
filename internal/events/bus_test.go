package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversByTopic(t *testing.T) {
	bus := NewBus()

	var themes, all []Event
	bus.Subscribe(ThemeChanged, func(e Event) { themes = append(themes, e) })
	bus.Subscribe("", func(e Event) { all = append(all, e) })

	bus.Publish(Event{Topic: ThemeChanged, Visitor: "v1", Value: "light"})
	bus.Publish(Event{Topic: VisitorNameChanged, Visitor: "v1", Value: "Ali"})

	assert.Len(t, themes, 1)
	assert.Equal(t, "light", themes[0].Value)
	assert.Len(t, all, 2)
}

func TestBusOrderAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Subscribe(ThemeChanged, func(Event) { calls = append(calls, "first") })
	cancel := bus.Subscribe(ThemeChanged, func(Event) { calls = append(calls, "second") })
	bus.Subscribe(ThemeChanged, func(Event) { calls = append(calls, "third") })

	bus.Publish(Event{Topic: ThemeChanged})
	assert.Equal(t, []string{"first", "second", "third"}, calls)

	cancel()
	cancel()
	calls = nil
	bus.Publish(Event{Topic: ThemeChanged})
	assert.Equal(t, []string{"first", "third"}, calls)
	assert.Equal(t, 2, bus.Len())
}

func TestBusHandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus()
	count := 0
	var cancel func()
	cancel = bus.Subscribe(VisitorNameChanged, func(Event) {
		count++
		cancel()
	})

	bus.Publish(Event{Topic: VisitorNameChanged})
	bus.Publish(Event{Topic: VisitorNameChanged})
	assert.Equal(t, 1, count)
}
