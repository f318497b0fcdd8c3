package routes

import (
	"encoding/json"
	"net/http"

	"github.com/folio-app/folio/backend/internal/queue"
	"github.com/folio-app/folio/backend/internal/server/middleware"
	"github.com/folio-app/folio/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InvalidateCacheHandler drops every cached graph snapshot synchronously.
func InvalidateCacheHandler(c echo.Context) error {
	type invalidateResponse struct {
		Deleted int `json:"deleted"`
	}

	app := c.(*middleware.AppContext).App

	deleted, err := app.Cache.Invalidate(c.Request().Context())
	if err != nil {
		logger.Error("Failed to invalidate graph cache", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, invalidateResponse{Deleted: deleted})
}

// PostMutationHandler enqueues a collection-mutation event for the
// invalidation worker. CRUD layers call this after writing rows.
func PostMutationHandler(c echo.Context) error {
	type postMutationParams struct {
		Entity string `json:"entity" validate:"required"`
		Action string `json:"action" validate:"required"`
	}

	type postMutationResponse struct {
		CorrelationID string `json:"correlation_id"`
	}

	params := new(postMutationParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	event, err := queue.NewMutationEvent(params.Entity, params.Action)
	if err != nil {
		logger.Error("Failed to create mutation event", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := queue.PublishMutation(app.Queue, payload); err != nil {
		logger.Error("Failed to publish mutation event", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, postMutationResponse{CorrelationID: event.CorrelationID})
}
