// @title        Skybook Gateway API
// @version      1.0
// @description  Flight booking gateway in front of the Amadeus self-service APIs.
// @BasePath     /
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DanielPopoola/skybook-gateway/internal/application/services"
	"github.com/DanielPopoola/skybook-gateway/internal/config"
	"github.com/DanielPopoola/skybook-gateway/internal/docs"
	"github.com/DanielPopoola/skybook-gateway/internal/infrastructure/amadeus"
	"github.com/DanielPopoola/skybook-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/skybook-gateway/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/skybook-gateway/internal/infrastructure/ticket"
	"github.com/DanielPopoola/skybook-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/skybook-gateway/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/skybook-gateway/internal/metrics"
	"github.com/DanielPopoola/skybook-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting booking gateway",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"inventory", cfg.Amadeus.BaseURL,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.NewMetrics("skybook", prometheus.DefaultRegisterer)

	countryRepo := postgres.NewAirportCountryRepository(db)
	airlineRepo := postgres.NewAirlineNameRepository(db)
	orderRepo := postgres.NewFlightOrderRepository(db)

	httpClient := amadeus.NewHTTPClient(cfg.Amadeus)
	tokens := amadeus.NewTokenProvider(cfg.Amadeus, httpClient, logger)
	inventory := amadeus.NewRetryInventoryClient(
		amadeus.NewInventoryClient(cfg.Amadeus, httpClient, tokens),
		cfg.Retry,
		logger,
	)
	catalog := amadeus.NewRetryCatalogClient(
		amadeus.NewCatalogClient(cfg.Amadeus, httpClient, tokens),
		cfg.Retry,
		logger,
	)

	publisher := events.NewPublisher(cfg.Kafka, logger)
	if c, ok := publisher.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Error("failed to close event publisher", "error", err)
			}
		}()
	}

	countries := services.NewCountryResolver(countryRepo, inventory, m, logger)
	bookingService := services.NewBookingService(
		tokens,
		inventory,
		countries,
		services.NewTravelerAssembler(countries, cfg.Policy.SandboxDefaults(), logger),
		services.NewOrderPersister(orderRepo, m, logger),
		ticket.NewPDFRenderer(cfg.Ticket.OutputDir, logger),
		publisher,
		m,
		logger,
	)
	queryService := services.NewQueryService(orderRepo)
	searchService := services.NewSearchService(
		catalog,
		services.NewNameResolver(catalog, airlineRepo, m, logger),
		services.SearchSettings{CurrencyCode: cfg.Search.CurrencyCode, DefaultMax: cfg.Search.MaxOffers},
		m,
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewFlightHandler(bookingService, queryService, db, logger).RegisterRoutes(mux)
	handlers.NewSearchHandler(searchService, logger).RegisterRoutes(mux)
	docs.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger, m)(handler)
	handler = middleware.Timeout(cfg.Server.RequestTimeout, handlers.CreateOrderRoute)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if cfg.Warmer.Enabled && len(cfg.Warmer.Airports) > 0 {
		warmer := worker.NewAirportWarmer(countries, cfg.Warmer.Airports, cfg.Warmer.Interval, logger)
		go warmer.Start(workerCtx)
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
