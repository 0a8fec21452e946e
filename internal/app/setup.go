// Package app contains the application setup for the ProductService.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/web"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServiceName is the name the health service reports the catalog under.
const GRPCServiceName = "catalog.v1.ProductService"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// MetricsHandler is mounted at the configured metrics path when not nil.
	MetricsHandler http.Handler
}

// SetupDependencies builds the store and the service on top of it.
func SetupDependencies(ctx context.Context, cfg *config.Config, publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	var seed []store.NewProduct
	if cfg.Catalog.Seed {
		seed = store.DemoProducts()
	}
	productStore, err := store.NewSeededInMemoryStore(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create product store: %w", err)
	}
	pService := service.NewService(productStore, publisher, service.Limits{
		DefaultLimit: cfg.Catalog.DefaultLimit,
		MaxLimit:     cfg.Catalog.MaxLimit,
	})

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
	}, nil
}

// SetupHttpHandler initializes the routes for the ProductService application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger)

	productAPI := rest.NewAPI(deps.ProductService, deps.Logger, cfg.HTTPServer.MaxBodyBytes)
	productAPI.RegisterRoutes(mux, web.APIKeyAuth(cfg.Auth.Header, cfg.Auth.APIKey, deps.Logger))

	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, cfg.Telemetry.Metrics.Path, deps.MetricsHandler)
	}

	if cfg.Telemetry.Traces.Enabled {
		return otelhttp.NewHandler(mux, "product-service")
	}
	return mux
}

// SetupHttpServer creates and configures an HTTP server for the ProductService application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}
	return server.NewHTTPServer(httpCfg, SetupHttpHandler(deps, cfg))
}

// SetupGrpcServer initializes the gRPC server with the standard health service.
// Both the server as a whole and the catalog service start as SERVING.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(GRPCServiceName, healthpb.HealthCheckResponse_SERVING)

	healthRegisterFunc := func(s *grpc.Server) {
		healthpb.RegisterHealthServer(s, healthServer)
	}
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, healthRegisterFunc), healthServer
}
