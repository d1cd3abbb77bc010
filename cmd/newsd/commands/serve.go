package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-newsnet/internal/handler"
	"github.com/goliatone/go-newsnet/internal/middleware"
	"github.com/goliatone/go-newsnet/pkg/config"
	"github.com/goliatone/go-newsnet/pkg/di"
	"github.com/goliatone/go-newsnet/pkg/logger"
	"github.com/goliatone/go-newsnet/pkg/metrics"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "newsd"

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. The server stops on SIGINT or SIGTERM: in-flight
requests finish, pending view increments are drained and the database pool
is closed, all within SERVER_SHUTDOWN_TIMEOUT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Override SERVER_PORT")
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Env: cfg.Server.Env, Service: serviceName})
	if err != nil {
		return err
	}
	defer log.Sync()

	container, err := di.NewContainer(cfg, di.WithLogger(log))
	if err != nil {
		log.Error("Failed to initialize dependencies", zap.Error(err))
		return err
	}

	e := newServer(container, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			e.Shutdown(shutdownCtx),
			container.Close(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}

// newServer builds the echo instance with middleware applied in order:
// recovery, request id, logging, metrics.
func newServer(container *di.Container, log *zap.Logger) *echo.Echo {
	cfg := container.Config()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(log))
	e.Use(container.Metrics().Middleware())

	e.GET("/health", handler.HealthCheck(serviceName, container, log))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(container.Registry())))

	handler.New(container.Engine(), handler.Defaults{
		Page:        1,
		Limit:       10,
		NetworkID:   cfg.Site.DefaultNetworkID,
		NetworkSlug: cfg.Site.DefaultNetworkSlug,
	}, log).Register(e)

	return e
}
