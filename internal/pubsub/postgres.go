package pubsub

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const notifyChannel = "statuspond_events"

type pgPubsub struct {
	pgListener *pq.Listener
	db         *sql.DB
	target     Pubsub
}

// NewPubsub bridges postgres LISTEN/NOTIFY onto the in-memory pubsub,
// so change events reach every process connected to the same database.
func NewPubsub(ctx context.Context, database *sql.DB, connectURL string) (Pubsub, error) {
	errCh := make(chan error)
	listener := pq.NewListener(connectURL, time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		select {
		case <-errCh:
			return
		default:
			errCh <- err
			close(errCh)
		}
	})

	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("create pq listener: %w", err)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := listener.Listen(notifyChannel); err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	pubsub := &pgPubsub{
		db:         database,
		pgListener: listener,
		target:     NewPubsubInMemory(),
	}
	go pubsub.listen(ctx)

	return pubsub, nil
}

func (p *pgPubsub) Close() error {
	return p.pgListener.Close()
}

func (p *pgPubsub) Subscribe(listener Listener) (cancel func(), err error) {
	return p.target.Subscribe(listener)
}

func (p *pgPubsub) Publish(event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(context.Background(), `select pg_notify(`+pq.QuoteLiteral(notifyChannel)+`, $1)`, payload)
	if err != nil {
		return fmt.Errorf("exec pg_notify: %w", err)
	}

	return nil
}

func (p *pgPubsub) listen(ctx context.Context) {
	var (
		notif *pq.Notification
		ok    bool
	)
	defer p.pgListener.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok = <-p.pgListener.Notify:
			if !ok {
				return
			}
		}
		// A nil notification can be dispatched on reconnect.
		if notif == nil {
			continue
		}
		p.listenReceive(notif)
	}
}

func (p *pgPubsub) listenReceive(notif *pq.Notification) {
	event := &Event{}

	if err := json.Unmarshal([]byte(notif.Extra), event); err != nil {
		zap.L().Error("unable to parse change notification", zap.Error(err))
		return
	}

	_ = p.target.Publish(event)
}
