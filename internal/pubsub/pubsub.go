package pubsub

// Event is one change notification from the datastore. The payload is
// opaque here: the fanout routes it, it never parses it.
type Event struct {
	Channel string `json:"channel"`
	Payload string `json:"payload"`
}

type Listener chan *Event

// Pubsub is the single upstream change-notification stream. The
// process subscribes once at startup; multiplexing to http subscribers
// happens downstream in the stream package.
type Pubsub interface {
	Subscribe(listener Listener) (cancel func(), err error)
	Publish(event *Event) error
	Close() error
}
