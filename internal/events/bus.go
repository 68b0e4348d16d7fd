// Package events is a small typed publish/subscribe bus used to tell
// interested parties about things that happened elsewhere, such as an
// expired session detected by the API client.
package events

import "sync"

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler[T any] func(T)

// Bus delivers events of type T to every subscribed handler. The zero value
// is ready to use.
type Bus[T any] struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler[T]
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus[T]) Subscribe(h Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[int]Handler[T])
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every current subscriber with ev. A nil bus drops the event.
func (b *Bus[T]) Publish(ev T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler[T], 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}
