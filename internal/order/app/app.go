package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/quickmart/backend/internal/order/clients/payments"
	"github.com/quickmart/backend/internal/order/clients/products"
	"github.com/quickmart/backend/internal/order/clients/users"
	"github.com/quickmart/backend/internal/order/dal/postgres"
	"github.com/quickmart/backend/internal/order/dal/rabbitmq"
	"github.com/quickmart/backend/internal/order/dal/repositories/orderevents"
	orderrepo "github.com/quickmart/backend/internal/order/dal/repositories/order/postgres"
	"github.com/quickmart/backend/internal/order/service/services/ordersvc"
	httptransport "github.com/quickmart/backend/internal/order/transport/http"
	"github.com/quickmart/backend/pkg/httpx"
	"github.com/quickmart/backend/pkg/jaeger"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *jaeger.Controller
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := jaeger.MustInit("order-svc")
	postgresClient := postgres.MustNewClient()

	timeout := viper.GetDuration("http_client.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	httpClient := httpx.NewClient(timeout)

	var rabbitClient *rabbitmq.Client
	eventsOpt := ordersvc.WithEventPublisher(orderevents.NoopPublisher{})
	if viper.GetBool("rabbitmq.enabled") {
		rabbitClient = rabbitmq.MustNewClient()
		eventsOpt = ordersvc.WithEventPublisher(orderevents.NewPublisher(rabbitClient))
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderrepo.NewPostgresOrderRepository(postgresClient)),
		ordersvc.WithIdentityVerifier(users.NewClient(viper.GetString("services.user_url"), httpClient)),
		ordersvc.WithCatalog(products.NewClient(viper.GetString("services.product_url"), httpClient)),
		ordersvc.WithPaymentGateway(payments.NewClient(viper.GetString("services.payment_url"), httpClient)),
		eventsOpt,
	)

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
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

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Application shutdown complete")
}
