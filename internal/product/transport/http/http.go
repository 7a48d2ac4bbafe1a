package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/quickmart/backend/internal/product/service/models/product"
	createproduct "github.com/quickmart/backend/internal/product/transport/http/create_product"
	getproduct "github.com/quickmart/backend/internal/product/transport/http/get_product"
	listproducts "github.com/quickmart/backend/internal/product/transport/http/list_products"
	"github.com/quickmart/backend/internal/product/transport/http/reserve"
	"github.com/quickmart/backend/pkg/http/middleware/metrics"
	"github.com/quickmart/backend/pkg/http/middleware/trace"
	"github.com/quickmart/backend/pkg/logger"
)

const serviceName = "product-svc"

type service interface {
	Create(ctx context.Context, p product.Product) (int64, error)
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id int64) (*product.Product, error)
	Reserve(ctx context.Context, id int64, qty int) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/products", h.listProducts)
	h.router.Post("/products", h.createProduct)
	h.router.Get("/products/{id}", h.getProduct)
	h.router.Post("/reserve", h.reserve)
	h.router.Get("/healthz", healthz)
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.service)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateProduct(w, r, h.service)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	getproduct.GetProduct(w, r, h.service)
}

func (h *HTTPTransport) reserve(w http.ResponseWriter, r *http.Request) {
	reserve.Reserve(w, r, h.service)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
		slog.Error("Error writing healthz response", "error", err)
	}
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware(serviceName))
	router.Use(metrics.NewMetricsMiddleware(serviceName))

	c := cors.New(cors.Options{
		AllowedOrigins:   viper.GetStringSlice("server.http.cors.allowed_origins"),
		AllowedMethods:   viper.GetStringSlice("server.http.cors.allowed_methods"),
		AllowedHeaders:   viper.GetStringSlice("server.http.cors.allowed_headers"),
		ExposedHeaders:   viper.GetStringSlice("server.http.cors.exposed_headers"),
		AllowCredentials: viper.GetBool("server.http.cors.allow_credentials"),
		MaxAge:           viper.GetInt("server.http.cors.max_age"),
	})
	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
