package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/handlers"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/middleware"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/repositories"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/services"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/pkg/database"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("DATABASE_DSN", "")    // empty selects the in-memory store
	viper.SetDefault("RABBITMQ_URL", "")    // empty disables event publishing
	viper.SetDefault("TX_TIMEOUT_SECONDS", 5)
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	databaseDSN := viper.GetString("DATABASE_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	txTimeout := time.Duration(viper.GetInt("TX_TIMEOUT_SECONDS")) * time.Second

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
	} else {
		log.Println("RABBITMQ_URL not set; order events will not be published")
	}

	// --- Initialize Repositories ---
	// The store implementation is chosen once, here at construction time:
	// PostgreSQL when a DSN is configured, the in-memory store otherwise.
	var (
		userRepo    repositories.UserRepository
		productRepo repositories.ProductRepository
		orderRepo   repositories.OrderRepository
		txManager   repositories.TxManager
	)
	if databaseDSN != "" {
		db, err := database.Connect(databaseDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		userRepo = repositories.NewGORMUserRepository(db.DB)
		productRepo = repositories.NewGORMProductRepository(db.DB)
		orderRepo = repositories.NewGORMOrderRepository(db.DB)
		txManager = repositories.NewGormTxManager(db.DB, txTimeout)
		log.Println("Using PostgreSQL store")
	} else {
		mockUsers := repositories.NewMockUserRepository()
		mockProducts := repositories.NewMockProductRepository()
		userRepo = mockUsers
		productRepo = mockProducts
		orderRepo = repositories.NewMockOrderRepository()
		txManager = repositories.NewPassthroughTxManager()
		seedProducts(mockProducts)
		log.Println("DATABASE_DSN not set; using in-memory store (development only)")
	}

	// --- Initialize Services ---
	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, txManager, publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for order events...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil // Return nil to acknowledge
		}
		if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedProducts populates the in-memory product store with demo data so the
// development mode is usable out of the box.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{ID: "prod-1", Name: "Laptop", Description: "High performance laptop", Price: decimal.NewFromFloat(1200.00), Stock: 10, Category: "electronics"},
		{ID: "prod-2", Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.NewFromFloat(75.00), Stock: 25, Category: "electronics"},
		{ID: "prod-3", Name: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.NewFromFloat(25.00), Stock: 50, Category: "electronics"},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
