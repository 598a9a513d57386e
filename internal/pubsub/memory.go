package pubsub

import (
	"sync"

	"github.com/statuspond/statuspond/internal/util"
)

type memoryPubsub struct {
	mut       sync.RWMutex
	listeners map[uint64]Listener
}

func NewPubsubInMemory() Pubsub {
	return &memoryPubsub{
		listeners: make(map[uint64]Listener),
	}
}

func (m *memoryPubsub) Subscribe(listener Listener) (cancel func(), err error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	id := util.NextID()
	m.listeners[id] = listener

	return func() {
		m.mut.Lock()
		defer m.mut.Unlock()
		delete(m.listeners, id)
	}, nil
}

func (m *memoryPubsub) Publish(event *Event) error {
	m.mut.RLock()
	defer m.mut.RUnlock()
	for _, listener := range m.listeners {
		listener <- event
	}
	return nil
}

func (*memoryPubsub) Close() error {
	return nil
}
