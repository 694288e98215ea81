package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"storeapi/internal/config"
	"storeapi/internal/handlers"
	"storeapi/internal/repositories"
	"storeapi/internal/services"
	"storeapi/pkg/mongodb"
	"storeapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Initialize MongoDB Client ---
	// The store connection is established once here and injected into the
	// repository; nothing below reaches for ambient global state.
	mongoClient, err := mongodb.NewClient(mongodb.Config{
		URL:      cfg.DatabaseURL,
		Database: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB client: %v", err)
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			log.Printf("Error closing MongoDB client: %v", err)
		}
	}()

	// --- Initialize RabbitMQ Client ---
	// Event publishing is best-effort; without a broker the API still runs.
	var events services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("RabbitMQ unavailable, product events disabled: %v", err)
	} else {
		defer mqClient.Close()
		events = mqClient

		// --- Start RabbitMQ Consumer in a Goroutine ---
		// Listens on the product event queue and logs each delivery.
		go func() {
			log.Println("Starting RabbitMQ consumer for product events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received Product Event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Initialize Repository, Service, Handler ---
	productRepo := repositories.NewMongoProductRepository(mongoClient.Database())
	productService := services.NewProductService(productRepo, events)
	productHandler := handlers.NewProductHandler(productService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	productHandler.RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Store API!",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// MongoDB and RabbitMQ connections are closed by the deferred calls.
	log.Println("Server gracefully stopped")
}
