package keepie

import "sync"

// RequestQueue collects push requests submitted by inbound http calls
// until the next broker tick drains them. Enqueue order is preserved:
// Drain returns requests first-in first-out.
type RequestQueue struct {
	mu       sync.Mutex
	requests map[Tier][]string
}

func NewRequestQueue() *RequestQueue {
	return &RequestQueue{
		requests: make(map[Tier][]string),
	}
}

func (q *RequestQueue) Enqueue(tier Tier, destinationUrl string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requests[tier] = append(q.requests[tier], destinationUrl)
}

// Drain atomically removes and returns all requests currently queued
// for tier. Requests enqueued after Drain takes the lock end up in the
// next drain.
func (q *RequestQueue) Drain(tier Tier) []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.requests[tier]
	delete(q.requests, tier)
	return drained
}

func (q *RequestQueue) Len(tier Tier) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests[tier])
}
