package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-service/internal/api"
	"order-service/internal/api/handlers"
	"order-service/internal/cache"
	"order-service/internal/database"
	"order-service/internal/repository"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := database.LoadConfig()

	pool, err := database.ConnectPool(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.InitSchema(context.Background(), pool); err != nil {
		slog.Error("failed to initialise schema", "error", err)
		os.Exit(1)
	}

	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	movementRepo := repository.NewMovementRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// The service keeps working without Redis, product reads just skip
	// the cache.
	products := productRepo
	var invalidator handlers.ProductInvalidator

	rdb, err := cache.ConnectRedis(cfg)
	if err != nil {
		slog.Warn("redis unavailable, product reads go straight to the database", "error", err)
	} else {
		defer rdb.Close()
		cached := cache.NewCachedProductRepository(productRepo, rdb)
		products = cached
		invalidator = cached
	}

	router := api.NewRouter(
		handlers.NewCustomerHandler(customerRepo),
		handlers.NewProductHandler(products),
		handlers.NewOrderHandler(orderRepo, invalidator),
		handlers.NewMovementHandler(movementRepo),
		handlers.NewReportHandler(reportRepo),
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}
