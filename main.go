package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/mailer"
	"storefront/pkg/media"
	"storefront/pkg/rabbitmq"
)

// appDeps collects everything newApp needs so tests can inject in-memory
// repositories and stub collaborators.
type appDeps struct {
	cfg        *config.Config
	logger     zerolog.Logger
	users      repositories.UserRepository
	tokens     repositories.VerificationTokenRepository
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	orders     repositories.OrderRepository
	media      media.Service
	mail       mailer.Mailer
	events     services.EventPublisher
}

// newApp wires services, handlers and routes into a Fiber app.
func newApp(d appDeps) *fiber.App {
	authService := services.NewAuthService(d.users, d.tokens, d.mail, d.logger, d.cfg.JWTSecret, d.cfg.PublicBaseURL)
	userService := services.NewUserService(d.users, d.media, d.logger)
	categoryService := services.NewCategoryService(d.categories, d.media, d.logger)
	productService := services.NewProductService(d.products, d.categories, d.media, d.logger)
	orderService := services.NewOrderService(d.orders, d.products, d.events, d.logger)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, authService)
	productHandler := handlers.NewProductHandler(productService, authService)
	orderHandler := handlers.NewOrderHandler(orderService, authService)

	app := fiber.New()
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.VerificationToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
	}
	defer mqClient.Close()

	app := newApp(appDeps{
		cfg:        cfg,
		logger:     logger,
		users:      repositories.NewGORMUserRepository(db),
		tokens:     repositories.NewGORMVerificationTokenRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		products:   repositories.NewGORMProductRepository(db),
		orders:     repositories.NewGORMOrderRepository(db),
		media:      media.NewHTTPClient(media.Config{BaseURL: cfg.MediaBaseURL, APIKey: cfg.MediaAPIKey}),
		mail:       mailer.NewSMTPMailer(mailer.Config{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.SMTPFrom}),
		events:     mqClient,
	})

	// Drain order events so the queue does not grow unbounded when no
	// dedicated consumer is deployed.
	err = mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		logger.Info().Str("body", string(msg.Body)).Msg("order event received")
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to start order event consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}
