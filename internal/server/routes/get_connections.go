package routes

import (
	"context"
	"net/http"

	"github.com/folio-app/folio/backend/internal/server/middleware"
	"github.com/folio-app/folio/backend/pkg/common"
	"github.com/folio-app/folio/backend/pkg/logger"
	"github.com/folio-app/folio/backend/pkg/relgraph"

	"github.com/labstack/echo/v4"
)

func GetConnectionsHandler(c echo.Context) error {
	type getConnectionsParams struct {
		Type string `param:"type" validate:"required"`
		ID   int64  `param:"id" validate:"required"`
	}

	type getConnectionsResponse struct {
		Connections []common.Connection `json:"connections"`
	}

	params := new(getConnectionsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	entityType := common.NodeType(params.Type)
	if !entityType.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown entity type"})
	}

	app := c.(*middleware.AppContext).App

	builder, err := relgraph.NewBuilder(relgraph.BuilderParams{
		IncludeBinders: app.Graph.IncludeBinders,
		MinBookCount:   app.Graph.MinBookCount,
		MaxBooks:       app.Graph.MaxBooks,
	})
	if err != nil {
		logger.Error("Invalid graph defaults", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	ctx := c.Request().Context()
	graph, _, err := app.Cache.GetOrBuild(ctx, app.Graph.IncludeBinders, app.Graph.MinBookCount, app.Graph.MaxBooks,
		func(ctx context.Context) (common.Graph, error) {
			books, err := app.Source.ListOwnedBooks(ctx, app.Graph.MaxBooks)
			if err != nil {
				return common.Graph{}, err
			}
			return builder.Build(ctx, books, app.Source)
		})
	if err != nil {
		logger.Error("Failed to build relationship graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	focalID := common.NodeID(entityType, params.ID)
	if _, ok := graph.Nodes[focalID]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Entity not in graph"})
	}

	narratives, err := app.Source.ListNarratives(ctx)
	if err != nil {
		logger.Warn("Failed to load connection narratives", "err", err)
		narratives = nil
	}

	connections := relgraph.KeyConnections(graph, focalID, narratives)
	return c.JSON(http.StatusOK, getConnectionsResponse{Connections: connections})
}
