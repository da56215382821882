package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/progarden/garden-crm/internal/app"
	"github.com/progarden/garden-crm/internal/auth"
	"github.com/progarden/garden-crm/internal/customers"
	"github.com/progarden/garden-crm/internal/dashboard"
	"github.com/progarden/garden-crm/internal/deliveries"
	"github.com/progarden/garden-crm/internal/finance"
	"github.com/progarden/garden-crm/internal/inventory"
	"github.com/progarden/garden-crm/internal/marketing"
	"github.com/progarden/garden-crm/internal/platform/cache"
	"github.com/progarden/garden-crm/internal/platform/db"
	"github.com/progarden/garden-crm/internal/shared"
	"github.com/progarden/garden-crm/internal/suppliers"
	"github.com/progarden/garden-crm/internal/users"
	"github.com/progarden/garden-crm/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	tokenManager := shared.NewTokenManager(redisClient, cfg.TokenTTL)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	authService := auth.NewService(logger, usersRepo, tokenManager, queue)
	authHandler := auth.NewHandler(logger, authService)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	financeRepo := finance.NewRepository(pool)
	financeService := finance.NewService(financeRepo, customersService)
	financeHandler := finance.NewHandler(logger, financeService)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewRepository(pool))
	deliveryHandler := deliveries.NewHandler(logger, deliveries.NewRepository(pool))
	marketingHandler := marketing.NewHandler(logger, marketing.NewRepository(pool))

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		TokenManager:     tokenManager,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		CustomersHandler: customersHandler,
		FinanceHandler:   financeHandler,
		InventoryHandler: inventoryHandler,
		SuppliersHandler: suppliersHandler,
		DeliveryHandler:  deliveryHandler,
		MarketingHandler: marketingHandler,
		DashboardHandler: dashboardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
