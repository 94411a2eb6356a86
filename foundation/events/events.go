// Package events supports fanning out engine events to any number of
// subscribers, such as websocket clients watching the node.
package events

import (
	"fmt"
	"sync"
)

// Since a message is dropped if a subscriber is not ready to receive, this
// buffer gives slow receivers room before they start missing events.
const subscriberBuffer = 100

// Events maintains the set of subscriber channels that receive a copy of
// every event sent through the bus.
type Events struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

// New constructs an Events bus for subscribing and publishing.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Subscribe registers the specified id and returns the channel events will
// be delivered on. Subscribing twice with the same id reuses the channel.
func (evt *Events) Subscribe(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subscribers[id]; exists {
		return ch
	}

	ch := make(chan string, subscriberBuffer)
	evt.subscribers[id] = ch

	return ch
}

// Unsubscribe closes and removes the channel registered under the
// specified id.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subscribers, id)
	close(ch)

	return nil
}

// Send publishes a formatted event to every subscriber. Send never blocks:
// a subscriber with a full buffer misses the event.
func (evt *Events) Send(v string, args ...any) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	s := fmt.Sprintf(v, args...)

	for _, ch := range evt.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subscribers {
		delete(evt.subscribers, id)
		close(ch)
	}
}
