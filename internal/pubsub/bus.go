// Package pubsub implements the notification bus between the progression
// ledger and presentation surfaces (HTTP pollers, websocket push, bots).
package pubsub

import (
	"sync"

	"doge_heroes/internal/domain"
)

// Subscriber receives a snapshot copy of the state after every mutation.
// The snapshot is the subscriber's to keep; mutating it never reaches the ledger.
type Subscriber func(state *domain.GameState)

type entry struct {
	id int64
	fn Subscriber
}

// Bus is a simple observer list. Publish calls subscribers synchronously in
// registration order.
type Bus struct {
	mu      sync.Mutex
	nextID  int64
	entries []entry
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback and returns a function that removes exactly
// this registration. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(fn Subscriber) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.entries = append(b.entries, entry{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.entries {
			if b.entries[i].id == id {
				b.entries = append(b.entries[:i], b.entries[i+1:]...)
				return
			}
		}
	}
}

// Publish hands a fresh snapshot copy to every current subscriber.
func (b *Bus) Publish(state *domain.GameState) {
	b.mu.Lock()
	subs := make([]Subscriber, len(b.entries))
	for i := range b.entries {
		subs[i] = b.entries[i].fn
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(state.Clone())
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
