package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mpetrenko/storefront/internal/config"
	"github.com/mpetrenko/storefront/internal/es"
	"github.com/mpetrenko/storefront/internal/events"
	"github.com/mpetrenko/storefront/internal/httpserver"
	"github.com/mpetrenko/storefront/internal/payment"
	"github.com/mpetrenko/storefront/internal/repo"
	"github.com/mpetrenko/storefront/internal/search"
	"github.com/mpetrenko/storefront/internal/service"
	"github.com/mpetrenko/storefront/pkg/db"
	"github.com/mpetrenko/storefront/pkg/logging"
	"github.com/mpetrenko/storefront/pkg/metrics"
	loggingmw "github.com/mpetrenko/storefront/pkg/middleware/loggingmw"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(logging.Options{Service: cfg.ServiceName, Level: cfg.LogLevel})

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := repo.Migrate(database); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	store := repo.New(database)

	producer := events.NewProducer(cfg.KafkaBrokers,
		events.TopicUser, events.TopicCart, events.TopicProduct, events.TopicOrder)
	if !producer.Enabled() {
		logger.Info("kafka disabled, events will not be published")
	}

	var charger payment.Charger = &payment.Mock{}
	if cfg.PaymentURL != "" {
		charger = payment.NewClient(cfg.PaymentURL)
	}

	var searchHandler *httpserver.SearchHTTP
	var indexer service.ProductIndexer
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: cfg.ESIndex}
		indexer = &search.Indexer{ES: esClient, IndexName: cfg.ESIndex}
	}

	catalogSvc := &service.CatalogService{Repo: store, Producer: producer, Indexer: indexer}
	cartSvc := &service.CartService{Repo: store, Producer: producer}
	orderSvc := &service.OrderService{
		Cart:     store,
		Catalog:  catalogSvc,
		Orders:   store,
		Charger:  charger,
		Producer: producer,
	}
	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Producer:      producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler: &httpserver.ProductHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		SearchHandler:  searchHandler,
		Metrics:        metrics.NewServerMetrics(cfg.ServiceName),
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
