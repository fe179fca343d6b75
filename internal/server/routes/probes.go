package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/samber/do"
)

func RegisterProbes(injector *do.Injector, e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Readiness requires the CI server to answer; the dashboard is useless
	// without it, while the other backends only degrade their own widgets.
	e.GET("/readyz", func(c echo.Context) error {
		type response struct {
			Status string          `json:"status"`
			Checks map[string]bool `json:"checks"`
		}

		ci := do.MustInvoke[upstream.CIServer](injector)
		if err := ci.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, &response{
				Status: "degraded",
				Checks: map[string]bool{"jenkins": false},
			})
		}
		return c.JSON(http.StatusOK, &response{
			Status: "ok",
			Checks: map[string]bool{"jenkins": true},
		})
	})
}
