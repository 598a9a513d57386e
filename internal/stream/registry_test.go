package stream

import (
	"testing"

	"github.com/statuspond/statuspond/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBroadcastReachesAllSubscribers(t *testing.T) {
	r := NewRegistry()

	a := r.Register("1.2.3.4")
	b := r.Register("5.6.7.8")

	event := &pubsub.Event{Channel: "log", Payload: `{"status":"hi"}`}
	r.Broadcast(event)

	assert.Equal(t, event, <-a)
	assert.Equal(t, event, <-b)
}

func TestRegistryRegisterReplacesExistingIdentity(t *testing.T) {
	r := NewRegistry()

	old := r.Register("1.2.3.4")
	replacement := r.Register("1.2.3.4")

	// the replaced channel is closed so its connection handler unwinds
	_, ok := <-old
	assert.False(t, ok)

	r.Broadcast(&pubsub.Event{Channel: "log", Payload: "{}"})
	assert.Len(t, replacement, 1)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryDeregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()

	ch := r.Register("1.2.3.4")
	r.Deregister("1.2.3.4", ch)
	r.Deregister("1.2.3.4", ch)
	r.Deregister("never-registered", ch)

	assert.Equal(t, 0, r.Count())
	assert.False(t, r.HasSession("1.2.3.4"))
}

func TestRegistryDeregisterIgnoresReplacedChannel(t *testing.T) {
	r := NewRegistry()

	old := r.Register("1.2.3.4")
	replacement := r.Register("1.2.3.4")

	// the old connection's cleanup fires after the replacement arrived
	r.Deregister("1.2.3.4", old)

	assert.True(t, r.HasSession("1.2.3.4"))
	r.Broadcast(&pubsub.Event{Channel: "log", Payload: "{}"})
	assert.Len(t, replacement, 1)
}

func TestRegistryBroadcastSkipsStuckSubscriber(t *testing.T) {
	r := NewRegistry()

	stuck := r.Register("stuck")
	healthy := r.Register("healthy")

	for i := 0; i < sessionBuffer+5; i++ {
		r.Broadcast(&pubsub.Event{Channel: "log", Payload: "{}"})
	}

	// the stuck subscriber's buffer capped out, the healthy one kept
	// receiving up to its own buffer
	assert.Len(t, stuck, sessionBuffer)
	assert.Len(t, healthy, sessionBuffer)

	for i := 0; i < sessionBuffer; i++ {
		<-healthy
	}
	r.Broadcast(&pubsub.Event{Channel: "log", Payload: "{}"})
	require.Len(t, healthy, 1)
}

func TestRegistryNoDeliveryAfterDeregister(t *testing.T) {
	r := NewRegistry()

	ch := r.Register("1.2.3.4")
	r.Deregister("1.2.3.4", ch)

	r.Broadcast(&pubsub.Event{Channel: "log", Payload: "{}"})
	assert.Empty(t, ch)
}
