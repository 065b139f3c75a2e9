package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"debate-tab-system/config"
	"debate-tab-system/handlers"
	"debate-tab-system/metrics"
	"debate-tab-system/middleware"
	"debate-tab-system/models"
	"debate-tab-system/services"
	"debate-tab-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	// 🔐 Gateway token on everything except the metrics scrape
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken, "/metrics"))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID, X-Cache",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Tournament{},
		&models.Team{},
		&models.Judge{},
		&models.Round{},
		&models.Draw{},
		&models.TeamPositionHistory{},
		&models.SeenPairing{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher services.DrawPublisher
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Publisher(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		publisher = r2
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set, released draws will not be published to R2")
	}

	collector := metrics.New(nil, "tab")
	tournamentService := services.NewTournamentService(db)
	drawService := services.NewDrawService(db, cfg.Draw, publisher, collector)

	if _, err := drawService.StartReleaseScheduler(ctx, time.Minute); err != nil {
		log.Fatal("failed to start release scheduler:", err)
	}

	app.Get("/metrics", metrics.Handler(nil))
	handlers.SetupTournamentRoutes(app, tournamentService, drawService, handlers.PublicOptions{
		RateLimitPerSec: cfg.Public.RateLimitPerSec,
		RateLimitBurst:  cfg.Public.RateLimitBurst,
		CacheTTL:        time.Duration(cfg.Public.CacheTTLSeconds) * time.Second,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Draw strategy: %s, swing teams disabled: %t", cfg.Draw.PositionStrategy, cfg.Draw.DisableSwingTeams)
	log.Println("✅ Draw release scheduler running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
