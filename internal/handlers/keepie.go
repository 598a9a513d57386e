package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/keepie"
	"go.uber.org/zap"
)

const receiptUrlHeader = "x-receipt-url"

func NewKeepieHandlers(queue *keepie.RequestQueue) *KeepieHandlers {
	return &KeepieHandlers{queue: queue}
}

type KeepieHandlers struct {
	queue *keepie.RequestQueue
}

// RequestCredential enqueues a push request. The response only
// acknowledges queueing: whether the destination actually receives a
// credential is decided against the allow-list at the next tick, and
// never reported back here.
func (h *KeepieHandlers) RequestCredential(c echo.Context) error {
	tier, err := keepie.ParseTier(c.Param("tier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiptUrl := c.Request().Header.Get(receiptUrlHeader)
	if receiptUrl == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing x-receipt-url header")
	}

	h.queue.Enqueue(tier, receiptUrl)

	zap.L().Debug("keepie request queued",
		zap.String("tier", tier.String()),
		zap.String("destination", receiptUrl))

	return c.NoContent(http.StatusNoContent)
}
