package realtime

import "sync"

// Channel is one subscribed topic. Bind registers a handler for a named
// event; a handler registered twice runs twice.
type Channel struct {
	name string

	mu       sync.RWMutex
	handlers map[string][]func(data []byte)
}

func newChannel(name string) *Channel {
	return &Channel{
		name:     name,
		handlers: make(map[string][]func(data []byte)),
	}
}

// Name is the topic this channel is bound to.
func (ch *Channel) Name() string {
	return ch.name
}

// Bind registers a handler for event. Handlers run on the connection's read
// goroutine; they must not block.
func (ch *Channel) Bind(event string, fn func(data []byte)) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.handlers[event] = append(ch.handlers[event], fn)
}

func (ch *Channel) dispatch(event string, data []byte) {
	ch.mu.RLock()
	handlers := append(([]func([]byte))(nil), ch.handlers[event]...)
	ch.mu.RUnlock()

	for _, fn := range handlers {
		fn(data)
	}
}
