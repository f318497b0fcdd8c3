package server

import (
	"github.com/folio-app/folio/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Relationship graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/entities/:type/:id/connections", routes.GetConnectionsHandler)

	// Cache routes
	apiRoutes.POST("/cache/invalidate", routes.InvalidateCacheHandler)
	apiRoutes.POST("/collection/mutations", routes.PostMutationHandler)
}
