package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickmart/backend/internal/product/dal/postgres"
	productrepo "github.com/quickmart/backend/internal/product/dal/repositories/product/postgres"
	"github.com/quickmart/backend/internal/product/service/services/productsvc"
	httptransport "github.com/quickmart/backend/internal/product/transport/http"
	"github.com/quickmart/backend/pkg/jaeger"
)

// App represents the application.
type App struct {
	productSvc     *productsvc.ProductService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	otelController *jaeger.Controller
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := jaeger.MustInit("product-svc")
	postgresClient := postgres.MustNewClient()

	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(productrepo.NewPostgresProductRepository(postgresClient)),
	)

	transport := httptransport.NewHTTPTransport(productSvc)
	transport.RegisterRoutes()

	return &App{
		productSvc:     productSvc,
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
