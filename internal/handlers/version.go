package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/statuspond/statuspond/internal/version"
)

func Version(c echo.Context) error {
	v, r := version.GetReleaseInfo()
	resp := map[string]string{
		"version":  v,
		"revision": r,
	}
	return c.JSON(http.StatusOK, resp)
}
