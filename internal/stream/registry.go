package stream

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/statuspond/statuspond/internal/pubsub"
)

// Registry tracks the one live stream connection per subscriber
// identity. A second registration under the same identity replaces the
// earlier one and closes its channel, so a reconnecting client never
// leaves a stale entry behind.
type Registry struct {
	mu       sync.RWMutex
	targets  map[string]chan *pubsub.Event
	sessions *xsync.MapOf[string, bool]
}

// Channel buffer per subscriber. Broadcast never waits on a slow
// connection; a full buffer means the event is dropped for that
// subscriber only.
const sessionBuffer = 20

func NewRegistry() *Registry {
	return &Registry{
		targets:  make(map[string]chan *pubsub.Event),
		sessions: xsync.NewMapOf[string, bool](),
	}
}

// Register returns the channel the subscriber's connection handler
// should read events from.
func (r *Registry) Register(identity string) chan *pubsub.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if curr, ok := r.targets[identity]; ok {
		close(curr)
	}

	ch := make(chan *pubsub.Event, sessionBuffer)
	r.targets[identity] = ch
	r.sessions.Store(identity, true)

	return ch
}

// Deregister removes the identity's entry. It is idempotent, and a
// no-op when ch is not the currently registered channel: a connection
// replaced by a newer one must not tear down its replacement.
func (r *Registry) Deregister(identity string, ch chan *pubsub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if curr, ok := r.targets[identity]; !ok || curr != ch {
		return
	}

	delete(r.targets, identity)
	r.sessions.Store(identity, false)
}

func (r *Registry) HasSession(identity string) bool {
	v, ok := r.sessions.Load(identity)
	return ok && v
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}

// Broadcast hands event to every registered subscriber. Sends are
// non-blocking: delivery is at-most-once and a stuck subscriber is
// skipped rather than waited on.
func (r *Registry) Broadcast(event *pubsub.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ch := range r.targets {
		select {
		case ch <- event:
		default: // subscriber buffer is full, drop for this one
		}
	}
}
