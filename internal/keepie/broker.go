package keepie

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Broker turns queued push requests into best-effort credential
// deliveries, one tick at a time. Every tier runs its own Broker with
// its own credential and schedule.
type Broker struct {
	tier       Tier
	interval   time.Duration
	credential Credential
	queue      *RequestQueue
	store      *AuthorizedStore
	sender     Sender
	logger     *zap.Logger
}

func NewBroker(tier Tier, interval time.Duration, queue *RequestQueue, store *AuthorizedStore, sender Sender, logger *zap.Logger) *Broker {
	return &Broker{
		tier:       tier,
		interval:   interval,
		credential: NewCredential(tier),
		queue:      queue,
		store:      store,
		sender:     sender,
		logger:     logger.Named("keepie").With(zap.String("tier", tier.String())),
	}
}

func (b *Broker) Tier() Tier {
	return b.tier
}

func (b *Broker) Credential() Credential {
	return b.credential
}

// Start runs the tick loop until ctx is cancelled.
func (b *Broker) Start(ctx context.Context) {
	t := time.NewTicker(b.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.Tick(ctx)
		}
	}
}

// Tick performs one scheduling round: load the allow-list, drain the
// queue, intersect, deliver. The allow-list membership check happens
// here, at push time, never at enqueue time.
func (b *Broker) Tick(ctx context.Context) {
	allowed, err := b.store.Load(b.tier)
	if err != nil {
		// Fail closed. Requests are not durable, so the pending batch
		// is discarded rather than retained for a retry.
		dropped := b.queue.Drain(b.tier)
		b.logger.Warn("authorized urls unavailable, skipping tick",
			zap.Int("dropped", len(dropped)),
			zap.Error(err))
		return
	}

	requested := b.queue.Drain(b.tier)
	if len(requested) == 0 {
		return
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		allowedSet[u] = true
	}

	var toSend []string
	seen := make(map[string]bool, len(requested))
	for _, u := range requested {
		if seen[u] {
			continue
		}
		seen[u] = true

		if !allowedSet[u] {
			pushesSkipped.WithLabelValues(b.tier.String()).Inc()
			b.logger.Info("destination not on the allow-list, skipping", zap.String("destination", u))
			continue
		}
		toSend = append(toSend, u)
	}

	if len(toSend) == 0 {
		return
	}

	// Deliveries are independent: a slow or failing destination must
	// not delay or abort the rest.
	var wg sync.WaitGroup
	var mu sync.Mutex
	var result *multierror.Error

	for _, destination := range toSend {
		wg.Add(1)
		go func(destination string) {
			defer wg.Done()

			if err := b.sender.Send(ctx, destination, b.credential); err != nil {
				pushesFailed.WithLabelValues(b.tier.String()).Inc()
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
				return
			}

			pushesDelivered.WithLabelValues(b.tier.String()).Inc()
			b.logger.Debug("credential delivered", zap.String("destination", destination))
		}(destination)
	}
	wg.Wait()

	if err := result.ErrorOrNil(); err != nil {
		b.logger.Error("credential push failures", zap.Error(err))
	}
}
