package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bankloan-web/internal/adapters/api"
	"bankloan-web/internal/adapters/http/middleware"
	"bankloan-web/internal/adapters/http/routes"
	"bankloan-web/internal/adapters/persistence/models"
	"bankloan-web/internal/adapters/persistence/repositories"
	"bankloan-web/internal/config"
	"bankloan-web/internal/core/services"
	"bankloan-web/internal/pkg/logger"
	"bankloan-web/internal/pkg/sealer"
	"bankloan-web/internal/pkg/token"
	"bankloan-web/internal/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "bankloan-web/docs" // Swagger docs
)

// @title Bank Loan Web Client
// @version 1.0
// @description Session and health endpoints of the bank loan web client.
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.AppMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// Session slot
	repo, closeRepo, err := openSessionRepository(cfg, zl)
	if err != nil {
		zl.Fatal("failed to open session storage", zap.Error(err))
	}
	defer closeRepo()

	slotSealer, err := sealer.New(cfg.Session.Key)
	if err != nil {
		zl.Fatal("failed to build token sealer", zap.Error(err))
	}

	var decoderOpts []token.Option
	if cfg.API.JWTSecret != "" {
		decoderOpts = append(decoderOpts, token.WithSecret(cfg.API.JWTSecret))
	}
	store := services.NewSessionStore(repo, slotSealer, token.NewDecoder(decoderOpts...), zl)
	if _, err := store.Restore(context.Background()); err != nil {
		zl.Fatal("failed to restore session", zap.Error(err))
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, zl.Named("api"))

	// API reachability probe
	probe, err := services.NewProbeService(client, cfg.API.ProbeSchedule, cfg.API.Timeout, zl.Named("probe"))
	if err != nil {
		zl.Fatal("failed to schedule API probe", zap.Error(err))
	}
	probe.Start()
	defer probe.Stop()

	// Views live until shutdown at most
	viewCtx, cancelViews := context.WithCancel(context.Background())
	defer cancelViews()
	nav := services.NewNavigator(viewCtx, zl.Named("views"))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Bank Loan Web Client",
		ErrorHandler: middleware.CustomErrorHandler,
		Views:        views.New(),
	})

	// Setup middlewares
	middleware.Setup(app, cfg, zl.Named("http"))

	// Setup routes
	routes.Setup(app, routes.Deps{
		Config: cfg,
		Log:    zl,
		Store:  store,
		Nav:    nav,
		API:    client,
		Probe:  probe,
	})

	// Graceful shutdown
	go gracefulShutdown(app, nav, zl)

	zl.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.AppMode),
		zap.String("api", cfg.API.BaseURL),
		zap.String("session_driver", cfg.Session.Driver),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}

// openSessionRepository opens the session slot for the configured driver
func openSessionRepository(cfg *config.Config, zl *zap.Logger) (repositories.SessionRepository, func(), error) {
	if cfg.Session.Driver == config.DriverMemory {
		repo, err := repositories.NewMemorySessionRepository()
		return repo, func() {}, err
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := config.CloseDatabase(db); err != nil {
			zl.Warn("failed to close session database", zap.Error(err))
		}
	}

	// Auto migrate (creates the session table if missing)
	if err := models.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	zl.Info("session storage ready", zap.String("driver", cfg.Session.Driver))
	return repositories.NewSessionRepository(db), closeDB, nil
}

// gracefulShutdown unmounts the current view and stops the server
func gracefulShutdown(app *fiber.App, nav *services.Navigator, zl *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	nav.Leave()
	if err := app.Shutdown(); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
	zl.Info("server stopped gracefully")
}
