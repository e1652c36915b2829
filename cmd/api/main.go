package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mgnrega-api/docs"
	"mgnrega-api/internal/cache"
	"mgnrega-api/internal/catalog"
	"mgnrega-api/internal/config"
	"mgnrega-api/internal/geocode"
	"mgnrega-api/internal/handler"
	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/matcher"
	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/middleware"
	"mgnrega-api/internal/repository"
	"mgnrega-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// catalogBackend is what both the database and the upstream catalog service provide.
type catalogBackend interface {
	handler.CatalogService
	service.DashboardRepository
	cache.CatalogSource
}

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.Log.Level, config.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Catalog backend
	var backend catalogBackend
	switch config.Catalog.Mode {
	case "http":
		backend = catalog.NewClient(catalog.Config{
			BaseURL:     config.Catalog.BaseURL,
			Timeout:     config.Catalog.Timeout,
			Concurrency: config.Catalog.Concurrency,
		})
		log.Info().Str("base_url", config.Catalog.BaseURL).Msg("serving catalog from upstream service")
	default:
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		backend = repository.NewRepository(conn)
		log.Info().Msg("serving catalog from database")
	}

	// Catalog cache
	var store cache.Store
	switch config.Cache.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, config.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to redis")
		}
		defer client.Close()
		store = cache.NewRedisStore(client)
	case "memory":
		store = cache.NewMemoryStore(config.Cache.TTL)
	}
	loader := cache.NewCatalogLoader(backend, store,
		cache.WithTTL(config.Cache.TTL),
		cache.WithLoadTimeout(config.Cache.LoadTimeout),
		cache.WithLoaderMetrics(m),
	)

	// Initialize layers
	geocoder := geocode.NewClient(
		geocode.NewNominatimProvider(geocode.NominatimConfig{
			BaseURL:   config.Geocode.BaseURL,
			UserAgent: config.Geocode.UserAgent,
			Zoom:      config.Geocode.Zoom,
			RateLimit: config.Geocode.RateLimit,
		}),
		geocode.WithTimeout(config.Geocode.Timeout),
		geocode.WithMetrics(m),
	)
	resolver := service.NewLocationResolver(geocoder, matcher.New(),
		service.WithBudget(config.Resolver.Budget),
		service.WithResolverMetrics(m),
	)
	aggregator := service.NewDashboardAggregator(backend,
		service.WithDedupe(config.Dashboard.Dedupe),
		service.WithSharedTimeout(config.Dashboard.Timeout),
		service.WithAggregatorMetrics(m),
	)

	locationHandler := handler.NewLocationHandler(resolver, loader)
	dashboardHandler := handler.NewDashboardHandler(aggregator)
	catalogHandler := handler.NewCatalogHandler(backend)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.Register(r.Group("/api"), locationHandler, dashboardHandler, catalogHandler)

	srv := &http.Server{
		Addr: config.ServerAddress,
		Handler: cors.New(cors.Options{
			AllowedOrigins: config.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
		}).Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
