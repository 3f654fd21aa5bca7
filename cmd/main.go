package main

import (
	"context"
	"fmt"
	"log"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"shopkart/internal/config"
	"shopkart/internal/handlers"
	"shopkart/internal/jobs"
	"shopkart/internal/middleware"
	"shopkart/internal/migrations"
	"shopkart/internal/repositories"
	"shopkart/internal/services"
	"shopkart/internal/tokens"
	"shopkart/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := migrations.Run(context.Background(), pool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}

	// Object storage for product images
	mediaSvc, err := services.NewMinioMediaService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}
	if err := mediaSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure media bucket exists: %v", err)
	}

	// Refresh tokens and login throttling live in Redis
	tokenStore := tokens.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)

	// Services
	catalogSvc := services.NewCatalogService(productRepo, categoryRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo, mediaSvc)
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, catalogSvc, mediaSvc, cfg.AutoProvision)
	authSvc := services.NewAuthService(userRepo, tokenStore, jwtSecret)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	categoryHandlers := handlers.NewCategoryHandlers(categoryRepo, productSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)

	// Background low-stock sweep
	stockAlerts, err := jobs.NewStockAlertScheduler(productRepo, cfg.LowStockThreshold)
	if err != nil {
		log.Fatalf("Failed to create stock alert scheduler: %v", err)
	}
	stockAlerts.Start()
	defer stockAlerts.Stop()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	v1 := e.Group("/v1")

	// Authentication routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Public catalog routes
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.GET("/categories/:slug", categoryHandlers.GetCategory)
	v1.GET("/categories/:slug/products", categoryHandlers.CategoryProducts)
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/featured", productHandlers.FeaturedProducts)
	v1.GET("/products/search", productHandlers.SearchProducts)
	v1.GET("/products/:slug", productHandlers.GetProduct)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	protected.GET("/me", authHandlers.Me)
	protected.PUT("/me/profile", authHandlers.UpdateProfile)
	protected.POST("/auth/change-password", authHandlers.ChangePassword)

	protected.POST("/orders", orderHandlers.PlaceOrder)
	protected.GET("/orders", orderHandlers.OrderHistory)
	protected.GET("/orders/:id", orderHandlers.OrderDetail)
	protected.POST("/orders/:id/cancel", orderHandlers.CancelOrder)
	protected.POST("/orders/:id/ship", orderHandlers.MarkShipped)
	protected.POST("/orders/:id/deliver", orderHandlers.MarkDelivered)

	protected.POST("/products/:slug/image", productHandlers.UploadImage)

	log.Printf("🚀 Shopkart server v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
