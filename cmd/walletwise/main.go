package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"walletwise/internal/activity"
	"walletwise/internal/api"
	"walletwise/internal/api/handlers"
	"walletwise/internal/ledger"
	"walletwise/internal/repository"
	"walletwise/internal/repository/memory"
	"walletwise/internal/service"
	"walletwise/pkg/auth"
	"walletwise/pkg/config"
	"walletwise/pkg/logger"
	"walletwise/pkg/postgres"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title WalletWise API
// @version 1.0
// @description Personal finance API that keeps each user's wallet balance consistent with their transactions.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

type stores struct {
	users        service.UserStore
	transactions service.TransactionStore
	activities   activity.Store
	close        func()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting WalletWise service",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("strict_wallet_balance", cfg.Wallet.StrictBalance),
	)

	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	st, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer st.close()

	recorder := activity.NewRecorder(st.activities, activity.Config{
		QueueSize:    cfg.Activity.QueueSize,
		Workers:      cfg.Activity.Workers,
		WriteTimeout: cfg.Activity.WriteTimeout,
	}, appLogger)
	walletLedger := ledger.New(cfg.Wallet.StrictBalance)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(st.users, jwtManager, appLogger)
	txService := service.NewTransactionService(st.users, st.transactions, recorder, walletLedger, appLogger)
	walletService := service.NewWalletService(st.users, st.transactions, walletLedger, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	walletHandler := handlers.NewWalletHandler(walletService, appLogger)

	// Setup router
	app := api.SetupRouter(api.RouterConfig{
		StaticDir:       cfg.Server.StaticDir,
		WritesPerMinute: cfg.RateLimit.WritesPerMinute,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
	}, authHandler, txHandler, walletHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}

	// Drain queued activity before the store goes away.
	recorder.Close()
}

func openStores(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (*stores, error) {
	if cfg.Database.Driver == "memory" {
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			users:        memory.NewUserRepository(),
			transactions: memory.NewTransactionRepository(),
			activities:   memory.NewActivityRepository(),
			close:        func() {},
		}, nil
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, appLogger); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &stores{
		users:        repository.NewUserRepository(db, appLogger),
		transactions: repository.NewTransactionRepository(db, appLogger),
		activities:   repository.NewActivityRepository(db, appLogger),
		close:        db.Close,
	}, nil
}
