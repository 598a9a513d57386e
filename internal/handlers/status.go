package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/config"
	"github.com/statuspond/statuspond/internal/keepie"
)

func NewStatusHandlers(config *config.Config, store *keepie.AuthorizedStore) *StatusHandlers {
	return &StatusHandlers{
		config: config,
		store:  store,
	}
}

type StatusHandlers struct {
	config *config.Config
	store  *keepie.AuthorizedStore
}

type tierStatus struct {
	Description string   `json:"description"`
	RequestUrl  string   `json:"request_url"`
	Authorized  []string `json:"authorized"`
	Error       string   `json:"error,omitempty"`
}

type statusResponse struct {
	Up     bool                  `json:"up"`
	Keepie map[string]tierStatus `json:"keepie"`
}

var tierDescriptions = map[keepie.Tier]string{
	keepie.TierReadonly: "POST to request_url with an x-receipt-url header to be offered the read-only credential on the next push cycle; only destinations in the authorized list receive it",
	keepie.TierWrite:    "POST to request_url with an x-receipt-url header to be offered the write credential on the next push cycle; only destinations in the authorized list receive it",
}

// Status documents the keepie contract in its response: the request
// urls to advertise and the allow-lists as currently configured, read
// fresh on every call.
func (h *StatusHandlers) Status(c echo.Context) error {
	tiers := make(map[string]tierStatus, len(keepie.Tiers))

	for _, tier := range keepie.Tiers {
		s := tierStatus{
			Description: tierDescriptions[tier],
			RequestUrl:  h.config.CreateUrl("/keepie/%s/request", tier),
			Authorized:  []string{},
		}

		urls, err := h.store.Load(tier)
		if err != nil {
			s.Error = err.Error()
		} else {
			s.Authorized = urls
		}

		tiers[tier.String()] = s
	}

	return c.JSON(http.StatusOK, statusResponse{
		Up:     true,
		Keepie: tiers,
	})
}
