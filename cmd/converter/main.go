package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"plan-converter/internal/common/config"
	"plan-converter/internal/common/middleware"
	"plan-converter/internal/converter/handlers"
	"plan-converter/internal/plan/repository"
	"plan-converter/internal/plan/storage"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	planHandler := handlers.NewPlanHandler(repo, storage.NewFileStorage(cfg.StorageRoot))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "Plan Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.Environment, cfg.AllowedOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(repo))

	// ============================================================
	// API Docs
	// ============================================================

	app.Get("/docs", handlers.APIDocs)
	app.Get("/docs/openapi.yaml", handlers.APISpec(cfg.APISpecPath))

	// ============================================================
	// Converter Routes
	// ============================================================

	planHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Plan Converter Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
