package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shopapi/internal/config"
	"shopapi/internal/handlers"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey, which the user repository relies on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// Signup events are best effort; the API runs without the broker.
	var events *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		events, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logrus.Warnf("RabbitMQ unavailable, signup events disabled: %v", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	if cfg.SeedCatalog {
		seedCatalog(categoryRepo, productRepo)
	}

	authService := services.NewAuthService(userRepo, events, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	catalogService := services.NewCatalogService(categoryRepo, productRepo)

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	app := fiber.New()
	app.Use(logger.New())

	loginLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Request was throttled.",
			})
		},
	})

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, loginLimiter)
	catalogHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.Infof("starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			logrus.Fatalf("server failed to start: %v", err)
		}
	}()

	<-quit
	logrus.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("error during shutdown: %v", err)
	}
	logrus.Info("server stopped")
}

// seedCatalog loads a small fixture catalog for local development. Failures
// are logged and skipped, so re-running against a seeded database is safe.
func seedCatalog(categories repositories.CategoryRepository, products repositories.ProductRepository) {
	shoes := models.Category{Name: "Shoes", IsActive: true}
	bags := models.Category{Name: "Bags", IsActive: true}
	for _, c := range []*models.Category{&shoes, &bags} {
		if err := categories.Create(c); err != nil {
			logrus.Warnf("skipping category %s: %v", c.Name, err)
		}
	}

	fixtures := []models.Product{
		{Name: "Running Shoes", Description: "Comfortable running shoes for all terrains.", Price: 79.99, Stock: 100, CategoryID: &shoes.ID, IsActive: true},
		{Name: "Leather Bag", Description: "Stylish leather bag for everyday use.", Price: 149.99, Stock: 50, CategoryID: &bags.ID, IsActive: true},
		{Name: "Trail Boots", Description: "Waterproof boots for rough trails.", Price: 119.99, Stock: 30, CategoryID: &shoes.ID, IsActive: true},
	}
	for i := range fixtures {
		if err := products.Create(&fixtures[i]); err != nil {
			logrus.Warnf("skipping product %s: %v", fixtures[i].Name, err)
		} else {
			logrus.Infof("seeded product %s (id %d)", fixtures[i].Name, fixtures[i].ID)
		}
	}
}
