package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/quickmart/backend/internal/payment/dal/interfaces/irecordstore"
	"github.com/quickmart/backend/internal/payment/dal/redis"
	"github.com/quickmart/backend/internal/payment/dal/repositories/records/memory"
	redisstore "github.com/quickmart/backend/internal/payment/dal/repositories/records/redis"
	"github.com/quickmart/backend/internal/payment/service/services/paymentsvc"
	httptransport "github.com/quickmart/backend/internal/payment/transport/http"
	"github.com/quickmart/backend/pkg/jaeger"
)

// App represents the application.
type App struct {
	paymentSvc     *paymentsvc.PaymentService
	transport      *httptransport.HTTPTransport
	otelController *jaeger.Controller
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := jaeger.MustInit("payment-svc")

	var store irecordstore.Store
	switch backend := viper.GetString("records.backend"); backend {
	case "redis":
		store = redisstore.NewRecordStore(redis.MustNewClient())
	case "", "memory":
		store = memory.NewRecordStore()
	default:
		panic("unknown records backend: " + backend)
	}

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithRecordStore(store),
	)

	transport := httptransport.NewHTTPTransport(paymentSvc)
	transport.RegisterRoutes()

	return &App{
		paymentSvc:     paymentSvc,
		transport:      transport,
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

	slog.Info("Application shutdown complete")
}
