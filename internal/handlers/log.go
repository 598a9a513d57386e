package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/domain"
	"github.com/statuspond/statuspond/internal/pubsub"
	"go.uber.org/zap"
)

const recentEntriesLimit = 10

func NewLogHandlers(repository domain.Repository, ps pubsub.Pubsub) *LogHandlers {
	return &LogHandlers{
		repository: repository,
		ps:         ps,
	}
}

type LogHandlers struct {
	repository domain.Repository
	ps         pubsub.Pubsub
}

// SaveEntry stores a JSON status document and publishes it as a change
// event on channel `log`. Publishing is best-effort: a pubsub failure
// is logged, not surfaced, since the row is already saved.
func (h *LogHandlers) SaveEntry(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return logError(err)
	}

	if !json.Valid(body) {
		return echo.NewHTTPError(http.StatusBadRequest, "body is not valid JSON")
	}

	entry := domain.CreateStatusEntry(string(body))
	if err := h.repository.SaveStatusEntry(ctx, entry); err != nil {
		return logError(err)
	}
	statusEntriesSaved.Inc()

	payload, err := json.Marshal(entry)
	if err != nil {
		return logError(err)
	}

	if err := h.ps.Publish(&pubsub.Event{Channel: "log", Payload: string(payload)}); err != nil {
		zap.L().Error("unable to publish change event", zap.Error(err))
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *LogHandlers) ListEntries(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.repository.ListRecentStatusEntries(ctx, recentEntriesLimit)
	if err != nil {
		return logError(err)
	}

	return c.JSON(http.StatusOK, entries)
}
