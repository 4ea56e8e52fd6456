// Package events provides a typed in-process publish/subscribe bus.
package events

import "sync"

// Handler receives published events.
type Handler[E any] func(E)

// Bus delivers events of type E to every current subscriber.
// Publish is synchronous and delivers in subscription order.
type Bus[E any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []subscription[E]
}

// subscription pairs a handler with its removal id.
type subscription[E any] struct {
	id      uint64
	handler Handler[E]
}

// NewBus constructs an empty bus.
func NewBus[E any]() *Bus[E] {
	return &Bus[E]{}
}

// Subscribe registers h and returns a func that removes it. The returned func is idempotent.
func (b *Bus[E]) Subscribe(h Handler[E]) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription[E]{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Publish delivers evt to the handlers subscribed at call time.
func (b *Bus[E]) Publish(evt E) {
	b.mu.RLock()
	handlers := make([]Handler[E], 0, len(b.handlers))
	for _, sub := range b.handlers {
		handlers = append(handlers, sub.handler)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(evt)
	}
}

// Len returns the number of active subscribers.
func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// remove drops the subscription with id.
func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.handlers {
		if sub.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}
