// Package event provides a simple synchronous/async event dispatcher.
package event

import (
	"sync"

	"github.com/ruberanziza1/alx-project-nexus/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	// asyncPool bounds the goroutines spawned by FireAsync so a burst of
	// events cannot fan out without limit.
	asyncPool = workerpool.New(16)
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners on the bounded pool.
// It returns immediately without waiting for handlers to complete. When
// the pool is saturated the handler runs on its own goroutine instead of
// being dropped.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h := h
		if err := asyncPool.Submit(func() { h(payload) }); err != nil {
			go h(payload)
		}
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
