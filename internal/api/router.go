package api

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"walletwise/docs"
	"walletwise/internal/api/handlers"
	"walletwise/pkg/auth"
	"walletwise/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	StaticDir       string
	WritesPerMinute int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

func SetupRouter(
	cfg RouterConfig,
	authHandler *handlers.AuthHandler,
	txHandler *handlers.TransactionHandler,
	walletHandler *handlers.WalletHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
				message = "Internal server error"
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": message,
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	requireAuth := middleware.AuthMiddleware(jwtManager, appLogger)
	limitWrites := middleware.RateLimitWrites(cfg.WritesPerMinute)

	transactions := api.Group("/transactions", requireAuth, limitWrites)
	transactions.Post("", txHandler.AddTransaction)
	transactions.Get("", txHandler.ListTransactions)
	transactions.Post("/undo", txHandler.UndoTransaction)
	transactions.Put("/:id", txHandler.UpdateTransaction)
	transactions.Delete("/:id", txHandler.DeleteTransaction)
	transactions.Post("/:id/skip", txHandler.SkipNextOccurrence)
	transactions.Get("/:id/activity", txHandler.GetTransactionActivity)

	wallet := api.Group("/wallet", requireAuth, limitWrites)
	wallet.Get("", walletHandler.GetWallet)
	wallet.Post("/reconcile", walletHandler.Reconcile)

	// Web client, if built
	if cfg.StaticDir != "" && fileExists(filepath.Join(cfg.StaticDir, "index.html")) {
		appLogger.Info("Serving static files", zap.String("path", cfg.StaticDir))
		app.Static("/", cfg.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			return c.SendFile(filepath.Join(cfg.StaticDir, "index.html"))
		})
	} else {
		appLogger.Warn("Web static directory not found, static files will not be served", zap.String("path", cfg.StaticDir))
	}

	return app
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
