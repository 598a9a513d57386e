package keepie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	creds []Credential
	err   error
}

func (r *recordingSender) Send(_ context.Context, destinationUrl string, credential Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, destinationUrl)
	r.creds = append(r.creds, credential)
	return nil
}

func (r *recordingSender) deliveries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.sent...)
}

func newTestBroker(t *testing.T, tier Tier, store *AuthorizedStore, sender Sender) (*Broker, *RequestQueue) {
	t.Helper()
	queue := NewRequestQueue()
	broker := NewBroker(tier, time.Minute, queue, store, sender, zap.NewNop())
	return broker, queue
}

func TestBrokerPushesToAuthorizedDestination(t *testing.T) {
	path := writeAuthorizedFile(t, `["http://x/cb"]`)
	store := NewAuthorizedStore(path, path)
	sender := &recordingSender{}
	broker, queue := newTestBroker(t, TierWrite, store, sender)

	queue.Enqueue(TierWrite, "http://x/cb")
	broker.Tick(context.Background())

	require.Equal(t, []string{"http://x/cb"}, sender.deliveries())
	assert.Equal(t, broker.Credential(), sender.creds[0])
}

func TestBrokerDropsUnauthorizedDestination(t *testing.T) {
	path := writeAuthorizedFile(t, `[]`)
	store := NewAuthorizedStore(path, path)
	sender := &recordingSender{}
	broker, queue := newTestBroker(t, TierReadonly, store, sender)

	queue.Enqueue(TierReadonly, "http://evil/cb")
	broker.Tick(context.Background())

	assert.Empty(t, sender.deliveries())
}

func TestBrokerDeliversOncePerTick(t *testing.T) {
	path := writeAuthorizedFile(t, `["http://x/cb"]`)
	store := NewAuthorizedStore(path, path)
	sender := &recordingSender{}
	broker, queue := newTestBroker(t, TierWrite, store, sender)

	queue.Enqueue(TierWrite, "http://x/cb")
	queue.Enqueue(TierWrite, "http://x/cb")
	queue.Enqueue(TierWrite, "http://x/cb")
	broker.Tick(context.Background())

	assert.Equal(t, []string{"http://x/cb"}, sender.deliveries())
}

func TestBrokerSkipsTickWhenAllowListUnavailable(t *testing.T) {
	store := NewAuthorizedStore("missing.json", "missing.json")
	sender := &recordingSender{}
	broker, queue := newTestBroker(t, TierWrite, store, sender)

	queue.Enqueue(TierWrite, "http://x/cb")
	broker.Tick(context.Background())

	assert.Empty(t, sender.deliveries())
	// requests are not durable, the failed tick dropped them
	assert.Equal(t, 0, queue.Len(TierWrite))
}

func TestBrokerRereadsAllowListEveryTick(t *testing.T) {
	path := writeAuthorizedFile(t, `[]`)
	store := NewAuthorizedStore(path, path)
	sender := &recordingSender{}
	broker, queue := newTestBroker(t, TierWrite, store, sender)

	queue.Enqueue(TierWrite, "http://x/cb")
	broker.Tick(context.Background())
	assert.Empty(t, sender.deliveries())

	require.NoError(t, os.WriteFile(path, []byte(`["http://x/cb"]`), 0600))

	queue.Enqueue(TierWrite, "http://x/cb")
	broker.Tick(context.Background())
	assert.Equal(t, []string{"http://x/cb"}, sender.deliveries())
}

func TestBrokerIsolatesDeliveryFailures(t *testing.T) {
	var okDeliveries int
	var mu sync.Mutex

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		okDeliveries++
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	path := writeAuthorizedFile(t, `["`+broken.URL+`", "`+ok.URL+`"]`)
	store := NewAuthorizedStore(path, path)
	queue := NewRequestQueue()
	broker := NewBroker(TierWrite, time.Minute, queue, store, NewHTTPSender(5*time.Second), zap.NewNop())

	queue.Enqueue(TierWrite, broken.URL)
	queue.Enqueue(TierWrite, ok.URL)
	broker.Tick(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, okDeliveries)
}

func TestHTTPSenderPostsMultipartCredential(t *testing.T) {
	var gotName, gotPassword string

	receipt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotName = r.FormValue("name")
		gotPassword = r.FormValue("password")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer receipt.Close()

	sender := NewHTTPSender(5 * time.Second)
	credential := Credential{Name: "write", Secret: "s3cret"}

	require.NoError(t, sender.Send(context.Background(), receipt.URL, credential))
	assert.Equal(t, "write", gotName)
	assert.Equal(t, "s3cret", gotPassword)
}

func TestHTTPSenderRejectsNonSuccessStatus(t *testing.T) {
	receipt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer receipt.Close()

	sender := NewHTTPSender(5 * time.Second)
	assert.Error(t, sender.Send(context.Background(), receipt.URL, Credential{Name: "readonly", Secret: "x"}))
}
