package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickmart/backend/internal/user/dal/postgres"
	userrepo "github.com/quickmart/backend/internal/user/dal/repositories/user/postgres"
	"github.com/quickmart/backend/internal/user/service/services/usersvc"
	httptransport "github.com/quickmart/backend/internal/user/transport/http"
	"github.com/quickmart/backend/pkg/jaeger"
)

// App represents the application.
type App struct {
	userSvc        *usersvc.UserService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	otelController *jaeger.Controller
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := jaeger.MustInit("user-svc")
	postgresClient := postgres.MustNewClient()

	userSvc := usersvc.MustNewUserService(
		usersvc.WithUserRepository(userrepo.NewPostgresUserRepository(postgresClient)),
	)

	transport := httptransport.NewHTTPTransport(userSvc)
	transport.RegisterRoutes()

	return &App{
		userSvc:        userSvc,
		transport:      transport,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Application shutdown complete")
}
