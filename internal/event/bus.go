// Package event provides the buffer-activity event bus. The host
// environment publishes editing activity (content changes, writes,
// cursor movement, entering insert mode) and the session subscribes
// to the topics configured to trigger automatic clearing.
package event

import (
	"errors"
	"sync"

	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/host"
)

// Topic names one kind of buffer activity.
type Topic string

// Topics published by the host environment.
const (
	TopicBufferChanged Topic = "buffer.changed"
	TopicBufferWritten Topic = "buffer.written"
	TopicCursorMoved   Topic = "cursor.moved"
	TopicModeInsert    Topic = "mode.insert"
)

// KnownTopics lists every topic the bus understands.
var KnownTopics = []Topic{
	TopicBufferChanged,
	TopicBufferWritten,
	TopicCursorMoved,
	TopicModeInsert,
}

// ParseTopic maps a configuration string to a Topic.
func ParseTopic(s string) (Topic, bool) {
	for _, t := range KnownTopics {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Event is one buffer-activity notification.
type Event struct {
	Topic  Topic
	Buffer buffer.ID
}

// Handler processes a delivered event.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription int64

// ErrBusClosed is returned when publishing to a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Bus delivers buffer-activity events to subscribed handlers.
// Delivery happens on the host's serialized scheduler, so handlers
// never run concurrently with other host callbacks.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic]map[Subscription]Handler
	nextID Subscription
	poster host.Poster
	closed bool
}

// NewBus creates a bus that delivers events through the given
// poster. A nil poster delivers synchronously on the publishing
// goroutine, which the tests use.
func NewBus(poster host.Poster) *Bus {
	return &Bus{
		subs:   make(map[Topic]map[Subscription]Handler),
		poster: poster,
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[Subscription]Handler)
	}
	b.subs[topic][id] = h
	return id
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, handlers := range b.subs {
		delete(handlers, sub)
	}
}

// Publish delivers the event to every handler subscribed to its
// topic. Handler order is unspecified.
func (b *Bus) Publish(ev Event) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	handlers := make([]Handler, 0, len(b.subs[ev.Topic]))
	for _, h := range b.subs[ev.Topic] {
		handlers = append(handlers, h)
	}
	poster := b.poster
	b.mu.Unlock()

	for _, h := range handlers {
		h := h
		if poster == nil {
			h(ev)
			continue
		}
		if err := poster.Post(func() { h(ev) }); err != nil {
			return err
		}
	}
	return nil
}

// Close stops further publishing. Subscriptions are left in place.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
