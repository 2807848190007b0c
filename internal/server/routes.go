package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Products.RegisterRoutes(e)
	h.Customers.RegisterRoutes(e)
	h.Categories.RegisterRoutes(e)
	h.Orders.RegisterRoutes(e)
}
