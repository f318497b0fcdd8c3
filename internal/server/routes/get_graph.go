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

func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		IncludeBinders *bool `query:"include_binders"`
		MinBookCount   int   `query:"min_book_count" validate:"omitempty,min=1"`
		MaxBooks       int   `query:"max_books" validate:"omitempty,min=1"`
	}

	type getGraphResponse struct {
		Graph    common.Graph `json:"graph"`
		CacheHit bool         `json:"cache_hit"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	includeBinders := app.Graph.IncludeBinders
	if params.IncludeBinders != nil {
		includeBinders = *params.IncludeBinders
	}
	minBookCount := app.Graph.MinBookCount
	if params.MinBookCount > 0 {
		minBookCount = params.MinBookCount
	}
	maxBooks := app.Graph.MaxBooks
	if params.MaxBooks > 0 {
		maxBooks = params.MaxBooks
	}

	builder, err := relgraph.NewBuilder(relgraph.BuilderParams{
		IncludeBinders: includeBinders,
		MinBookCount:   minBookCount,
		MaxBooks:       maxBooks,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	graph, hit, err := app.Cache.GetOrBuild(ctx, includeBinders, minBookCount, maxBooks,
		func(ctx context.Context) (common.Graph, error) {
			books, err := app.Source.ListOwnedBooks(ctx, maxBooks)
			if err != nil {
				return common.Graph{}, err
			}
			return builder.Build(ctx, books, app.Source)
		})
	if err != nil {
		logger.Error("Failed to build relationship graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, getGraphResponse{Graph: graph, CacheHit: hit})
}
