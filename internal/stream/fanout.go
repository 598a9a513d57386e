package stream

import (
	"context"

	"github.com/statuspond/statuspond/internal/pubsub"
	"go.uber.org/zap"
)

// Fanout owns the single process-wide subscription on the datastore's
// change-notification stream and broadcasts every received event to
// the registry. Subscribers joining mid-stream only see events from
// that point forward; there is no buffering or replay.
type Fanout struct {
	ps       pubsub.Pubsub
	registry *Registry
	logger   *zap.Logger
}

func NewFanout(ps pubsub.Pubsub, registry *Registry, logger *zap.Logger) *Fanout {
	return &Fanout{
		ps:       ps,
		registry: registry,
		logger:   logger.Named("fanout"),
	}
}

// Start subscribes and pumps events until ctx is cancelled.
func (f *Fanout) Start(ctx context.Context) error {
	listener := make(pubsub.Listener, sessionBuffer)
	cancel, err := f.ps.Subscribe(listener)
	if err != nil {
		return err
	}

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-listener:
				if !ok {
					return
				}
				f.logger.Debug("broadcasting change event",
					zap.String("channel", event.Channel),
					zap.Int("subscribers", f.registry.Count()))
				f.registry.Broadcast(event)
			}
		}
	}()

	return nil
}
