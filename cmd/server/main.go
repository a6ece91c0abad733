package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/huma-fargate/internal/http/routes"
	"github.com/janisto/huma-fargate/internal/platform/config"
	"github.com/janisto/huma-fargate/internal/platform/logging"
	appmiddleware "github.com/janisto/huma-fargate/internal/platform/middleware"
	"github.com/janisto/huma-fargate/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := logging.Err(); err != nil {
		logging.LogError(context.Background(), "logger init error", err)
	}
	if err := config.LoadDotEnv(); err != nil {
		logging.LogError(context.Background(), "dotenv load error", err)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		logging.LogError(context.Background(), "config load failed", err)
		os.Exit(1)
	}

	srv := newServer(cfg, newRouter(cfg.DocsPath))

	listenErr := make(chan error, 1)
	go func() {
		logging.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// ECS sends SIGTERM when a task is stopped during a rolling deployment.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		logging.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case sig := <-stop:
		logging.LogInfo(context.Background(), "shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.LogError(ctx, "server shutdown error", err)
	}
	logging.LogInfo(context.Background(), "server exited")
}

func newRouter(docsPath string) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// X-Forwarded-For is set by the load balancer in front of the service.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		logging.RequestLogger(),
		logging.AccessLogger(),
		respond.Recoverer(),
	)

	api := routes.NewAPI(router, Version, docsPath)
	routes.Register(router, api)
	return router
}

func newServer(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
