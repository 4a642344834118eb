package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hpp-engine/internal/config"
	"go-hpp-engine/internal/handler"
	"go-hpp-engine/internal/middleware"
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/scheduler"
	"go-hpp-engine/internal/service"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/database"
	"go-hpp-engine/pkg/jwt"
	"go-hpp-engine/pkg/logger"
	"go-hpp-engine/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config (.env optional)
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}
	log := logger.Must(logger.New(cfg.App.LogLevel))
	defer log.Sync()

	opts, err := cfg.Costing.Options()
	if err != nil {
		log.Fatal("invalid costing config", zap.Error(err))
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	costMetrics := metrics.NewCostingMetrics(registry)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(logger.Named(log, "ws"))
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	summaryRepo := repository.NewCostSummaryRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)

	authService := service.NewAuthService(userRepo, tokens, logger.Named(log, "auth"))
	productService := service.NewProductService(productRepo, ingredientRepo, recipeRepo, wsHub)
	hppService := service.NewHppService(snapshotRepo, productRepo, summaryRepo, opts, costMetrics, wsHub, logger.Named(log, "hpp"))

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(service.NewUserService(userRepo)),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(hppService, opts.Risk)),
		Products:    handler.NewProductHandler(productService),
		Hpp:         handler.NewHppHandler(hppService),
		Ingredients: handler.NewCatalogHandler(service.NewCatalogService[model.Ingredient](ingredientRepo, "ingredient", wsHub), "Ingredient"),
		Overheads:   handler.NewCatalogHandler(service.NewCatalogService[model.OverheadEntry](repository.NewOwnedRepo[model.OverheadEntry](db), "overhead", wsHub), "Overhead"),
		Labor:       handler.NewCatalogHandler(service.NewCatalogService[model.LaborEntry](repository.NewOwnedRepo[model.LaborEntry](db), "labor", wsHub), "Labor"),
		Assets:      handler.NewCatalogHandler(service.NewCatalogService[model.AssetEntry](repository.NewOwnedRepo[model.AssetEntry](db), "asset", wsHub), "Asset"),
	}

	jobs, err := scheduler.New(cfg.Costing.RefreshSchedule, hppService, logger.Named(log, "scheduler"))
	if err != nil {
		log.Fatal("invalid scheduler config", zap.Error(err))
	}
	if err := jobs.Start(); err != nil {
		log.Fatal("scheduler failed to start", zap.Error(err))
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 7. Routes
	handler.RegisterRoutes(app, handlers, middleware.RequireAuth(tokens, userRepo))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, middleware.RequireWSAuth(tokens, userRepo))
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ownerID, _ := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
		wsHub.Join(ws.Client{Conn: c, OwnerID: ownerID})
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	log.Info("server started", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))

	<-ctx.Done()

	log.Info("shutting down server")
	jobs.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
