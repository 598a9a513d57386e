package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/domain"
	"github.com/statuspond/statuspond/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	entries []domain.StatusEntry
	err     error
}

func (f *fakeRepository) SaveStatusEntry(_ context.Context, entry *domain.StatusEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepository) ListRecentStatusEntries(_ context.Context, limit int) ([]domain.StatusEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeRepository) Transaction(action func(domain.Repository) error) error {
	return action(f)
}

func TestSaveEntryStoresAndPublishes(t *testing.T) {
	repository := &fakeRepository{}
	ps := pubsub.NewPubsubInMemory()

	listener := make(pubsub.Listener, 1)
	cancel, err := ps.Subscribe(listener)
	require.NoError(t, err)
	defer cancel()

	e := echo.New()
	e.POST("/db/log", NewLogHandlers(repository, ps).SaveEntry)

	body := `{"user": "nic", "status": "hello, my first status update"}`
	req := httptest.NewRequest(http.MethodPost, "/db/log", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repository.entries, 1)
	assert.Equal(t, body, repository.entries[0].Payload)

	event := <-listener
	assert.Equal(t, "log", event.Channel)

	var published domain.StatusEntry
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &published))
	assert.Equal(t, repository.entries[0].ID, published.ID)
}

func TestSaveEntryRejectsMalformedJSON(t *testing.T) {
	repository := &fakeRepository{}
	ps := pubsub.NewPubsubInMemory()

	e := echo.New()
	e.POST("/db/log", NewLogHandlers(repository, ps).SaveEntry)

	req := httptest.NewRequest(http.MethodPost, "/db/log", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repository.entries)
}

func TestListEntries(t *testing.T) {
	repository := &fakeRepository{entries: []domain.StatusEntry{
		{ID: 1, Payload: `{"status":"a"}`},
		{ID: 2, Payload: `{"status":"b"}`},
	}}

	e := echo.New()
	e.GET("/db/log", NewLogHandlers(repository, pubsub.NewPubsubInMemory()).ListEntries)

	req := httptest.NewRequest(http.MethodGet, "/db/log", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []domain.StatusEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}
