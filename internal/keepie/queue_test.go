package keepie

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestQueueDrainIsFIFO(t *testing.T) {
	q := NewRequestQueue()
	q.Enqueue(TierWrite, "http://a/cb")
	q.Enqueue(TierWrite, "http://b/cb")
	q.Enqueue(TierWrite, "http://c/cb")

	assert.Equal(t, []string{"http://a/cb", "http://b/cb", "http://c/cb"}, q.Drain(TierWrite))
}

func TestRequestQueueDrainEmptiesTheQueue(t *testing.T) {
	q := NewRequestQueue()
	q.Enqueue(TierReadonly, "http://a/cb")

	assert.Len(t, q.Drain(TierReadonly), 1)
	assert.Empty(t, q.Drain(TierReadonly))
}

func TestRequestQueueTiersAreIndependent(t *testing.T) {
	q := NewRequestQueue()
	q.Enqueue(TierReadonly, "http://a/cb")
	q.Enqueue(TierWrite, "http://b/cb")

	assert.Equal(t, []string{"http://b/cb"}, q.Drain(TierWrite))
	assert.Equal(t, []string{"http://a/cb"}, q.Drain(TierReadonly))
}

func TestRequestQueueConcurrentEnqueue(t *testing.T) {
	q := NewRequestQueue()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Enqueue(TierWrite, fmt.Sprintf("http://host-%d/cb", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, q.Drain(TierWrite), 100)
	assert.Equal(t, 0, q.Len(TierWrite))
}
