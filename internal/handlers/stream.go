package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/stream"
	"go.uber.org/zap"
)

const streamSessionHeader = "x-stream-session"

func NewStreamHandlers(registry *stream.Registry, keepAliveInterval time.Duration) *StreamHandlers {
	return &StreamHandlers{
		registry:          registry,
		keepAliveInterval: keepAliveInterval,
	}
}

type StreamHandlers struct {
	registry          *stream.Registry
	keepAliveInterval time.Duration
}

// Stream serves the live change-event stream as server-sent events.
// The first event on channel `meta` carries the caller's resolved
// identity; after that the connection only sees events emitted while
// it is registered, plus periodic keep-alive comments.
func (h *StreamHandlers) Stream(c echo.Context) error {
	identity := h.resolveIdentity(c)

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	ch := h.registry.Register(identity)
	connectedSubscribers.Inc()

	defer func() {
		h.registry.Deregister(identity, ch)
		connectedSubscribers.Dec()
	}()

	zap.L().Debug("stream subscriber connected", zap.String("identity", identity))

	meta, err := json.Marshal(map[string]string{"remote": identity})
	if err != nil {
		return logError(err)
	}
	if err := writeEvent(resp, "meta", string(meta)); err != nil {
		return logError(err)
	}

	keepAlive := time.NewTicker(h.keepAliveInterval)
	defer keepAlive.Stop()

	notify := c.Request().Context().Done()

	for {
		select {
		case <-notify:
			return nil
		case event, ok := <-ch:
			if !ok {
				// replaced by a newer connection under the same identity
				return nil
			}
			if err := writeEvent(resp, event.Channel, event.Payload); err != nil {
				return logError(err)
			}
		case <-keepAlive.C:
			if err := writeKeepAlive(resp); err != nil {
				// half-open connection detected, unwind and deregister
				return nil
			}
		}
	}
}

// resolveIdentity prefers an explicit session header so distinct
// clients behind one NAT address do not collide on a registry slot;
// without it the remote network address is the identity.
func (h *StreamHandlers) resolveIdentity(c echo.Context) string {
	if session := c.Request().Header.Get(streamSessionHeader); session != "" {
		return session
	}
	return c.RealIP()
}

func writeEvent(resp *echo.Response, channel, data string) error {
	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", channel, data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}

func writeKeepAlive(resp *echo.Response) error {
	if _, err := fmt.Fprint(resp, ": keep-alive\n\n"); err != nil {
		return err
	}
	resp.Flush()
	return nil
}
