package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/cache"
	"reseller-ledger-backend/internal/config"
	"reseller-ledger-backend/internal/logger"
	"reseller-ledger-backend/internal/middleware"
	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/routes"
	"reseller-ledger-backend/internal/services/dashboard"
	"reseller-ledger-backend/internal/services/export"
	"reseller-ledger-backend/internal/services/inventory"
	"reseller-ledger-backend/internal/services/invoicing"
	"reseller-ledger-backend/internal/services/sales"
	"reseller-ledger-backend/internal/services/subscriptions"
	"reseller-ledger-backend/internal/services/webhooks"
)

var rootCmd = &cobra.Command{
	Use:          "server",
	Short:        "Reseller ledger API",
	SilenceUsage: true,
	RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, appLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer appLogger.Sync()

		db, err := config.InitDB(cfg.Postgres)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		appLogger.Info("Database schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}
	cfg := config.Load()
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, appLogger, nil
}

func serve() error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	db, err := config.InitDB(cfg.Postgres)
	if err != nil {
		appLogger.Error("Could not connect to database", zap.Error(err))
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	var summaryCache cache.Cache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedis(ctx, cfg.Redis)
		cancel()
		if err != nil {
			appLogger.Warn("Could not connect to Redis, dashboard cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			summaryCache = redisCache
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	sqlxDB, err := dashboard.NewDB(db)
	if err != nil {
		return err
	}

	store := repository.NewStore(db)
	stripe := payments.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	if !stripe.Enabled() {
		appLogger.Warn("STRIPE_SECRET_KEY not set, invoice payments disabled")
	}

	agg := dashboard.NewAggregator(sqlxDB, appLogger, dashboard.WithCache(summaryCache, cfg.Redis.CacheTTL))
	invoices := invoicing.NewService(store, appLogger, stripe, agg)
	subs := subscriptions.NewService(store, appLogger, cfg.Tiers.ProPrice)

	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(appLogger), gin.Recovery())
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.UserHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Store:         store,
		Logger:        appLogger,
		Inventory:     inventory.NewService(store, appLogger, cfg.Tiers.FreeItemLimit, agg),
		Sales:         sales.NewService(store, appLogger, agg),
		Invoicing:     invoices,
		Dashboard:     agg,
		Export:        export.NewService(store, appLogger),
		Gate:          webhooks.NewGate(store, appLogger, invoices, subs),
		Parser:        stripe,
		FreeItemLimit: cfg.Tiers.FreeItemLimit,
		ProPrice:      cfg.Tiers.ProPrice,
	})

	srv := &http.Server{Addr: cfg.Server.HTTPPort, Handler: r}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}
