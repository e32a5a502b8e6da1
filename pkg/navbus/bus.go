// Package navbus is a small typed publish/subscribe bus.
//
// An application creates one bus at start-up and passes it to every
// component that needs to react to navigation, instead of reaching for a
// process-wide singleton. Delivery is synchronous and in subscription order.
package navbus

import "sync"

// Bus delivers values of type T to subscribers.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []subscription[T]
	nextID uint64
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers fn. The returned function removes the subscription
// and is safe to call more than once.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to every current subscriber in subscription order and
// returns how many were called. Subscribers added during delivery receive
// the next value, not this one.
func (b *Bus[T]) Publish(v T) int {
	b.mu.Lock()
	snapshot := make([]subscription[T], len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
	return len(snapshot)
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
