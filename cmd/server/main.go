package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"admin-backend/internal/config"
	"admin-backend/internal/engine"
	"admin-backend/internal/metadata"
	"admin-backend/internal/store"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db: %s)", cfg.Server.Port, cfg.Database.Driver)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Create collection tables
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap tables: %v", err)
	}
	log.Println("Collection tables ready")

	// 4. Seed demo data
	if cfg.Admin.Seed {
		if err := db.Seed(ctx); err != nil {
			log.Printf("WARN: Failed to seed demo data: %v", err)
		}
	}

	// 5. Open the two collections
	users, err := store.NewCollection(db, metadata.KindUser)
	if err != nil {
		log.Fatalf("Failed to open user collection: %v", err)
	}
	posts, err := store.NewPosts(db)
	if err != nil {
		log.Fatalf("Failed to open post collection: %v", err)
	}

	// 6. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: engine.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 7. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 8. Register management routes
	handler := engine.NewHandler(users, posts, cfg.Admin.PageSize,
		engine.ParseValidationMode(cfg.Admin.ValidationMode))
	engine.RegisterRoutes(app, handler)

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
