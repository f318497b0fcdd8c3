package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio-app/folio/backend/internal/cachecfg"
	"github.com/folio-app/folio/backend/internal/queue"
	mid "github.com/folio-app/folio/backend/internal/server/middleware"
	srcpgx "github.com/folio-app/folio/backend/internal/source/pgx"
	"github.com/folio-app/folio/backend/internal/util"
	"github.com/folio-app/folio/backend/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	runMigrations()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.MutationQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	cacheClient, closeCache, err := cachecfg.NewClientFromEnv(conn)
	if err != nil {
		logger.Fatal("Failed to set up graph cache", "err", err)
	}
	defer closeCache()

	app := &mid.App{
		DBConn: conn,
		Queue:  ch,
		Cache:  cacheClient,
		Source: srcpgx.New(conn),
		Graph: mid.GraphDefaults{
			IncludeBinders: util.GetEnvBool("GRAPH_INCLUDE_BINDERS", true),
			MinBookCount:   util.GetEnvInt("GRAPH_MIN_BOOK_COUNT", 1),
			MaxBooks:       util.GetEnvInt("GRAPH_MAX_BOOKS", 5000),
		},
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func runMigrations() {
	m, err := migrate.New("file://migrations", util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}
