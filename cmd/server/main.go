package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyeonpark/dongnemarket-backend/config"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/controller"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/service"
	"github.com/hyeonpark/dongnemarket-backend/internal/db"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
	"github.com/hyeonpark/dongnemarket-backend/internal/router"
	"github.com/hyeonpark/dongnemarket-backend/internal/scheduler"
	"github.com/hyeonpark/dongnemarket-backend/internal/storage"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"github.com/hyeonpark/dongnemarket-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting DONGNEMARKET Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional: the server degrades gracefully without it)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, caching and token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	shopRepo := repository.NewShopRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	ratingService := service.NewRatingService(shopRepo, productRepo, reviewRepo)
	shopService := service.NewShopService(db.GetDB(), shopRepo, userRepo)
	productService := service.NewProductService(productRepo, shopRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, shopRepo, productRepo, ratingService)
	categoryService := service.NewCategoryService(categoryRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(&cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	shopController := controller.NewShopController(shopService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)
	categoryController := controller.NewCategoryController(categoryService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start rating reconciler
	ratingReconciler := scheduler.NewRatingReconciler(ratingService, reviewRepo, shopRepo, productRepo)
	if err := ratingReconciler.Start(); err != nil {
		logger.Fatal("Failed to start rating reconciler", err)
	}
	defer ratingReconciler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		shopController,
		productController,
		reviewController,
		categoryController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
