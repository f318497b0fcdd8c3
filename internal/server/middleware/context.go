package middleware

import (
	"github.com/folio-app/folio/backend/internal/source"
	"github.com/folio-app/folio/backend/pkg/cache"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

// GraphDefaults are the build parameters used when a request does not
// override them.
type GraphDefaults struct {
	IncludeBinders bool
	MinBookCount   int
	MaxBooks       int
}

// App bundles the shared dependencies handlers need.
type App struct {
	DBConn *pgxpool.Pool
	Queue  *amqp091.Channel
	Cache  *cache.Client
	Source source.CollectionSource
	Graph  GraphDefaults
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware injects the shared App into every request context.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
