package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/makersmarket/makersmarket-backend/config"
	"github.com/makersmarket/makersmarket-backend/internal/app/controller"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/internal/app/service"
	"github.com/makersmarket/makersmarket-backend/internal/db"
	"github.com/makersmarket/makersmarket-backend/internal/middleware"
	"github.com/makersmarket/makersmarket-backend/internal/router"
	"github.com/makersmarket/makersmarket-backend/internal/scheduler"
	"github.com/makersmarket/makersmarket-backend/internal/storage"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"github.com/makersmarket/makersmarket-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Makers Market Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional. Without it, token revocation is disabled but the
	// service keeps running.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close redis connection", err)
				}
			}()
		}
	} else {
		logger.Info("Redis disabled, token revocation disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	// Controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	reviewController := controller.NewReviewController(reviewService)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		favoriteController,
		reviewController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	var cleanupScheduler *scheduler.CartCleanupScheduler
	if cfg.Cart.CleanupEnable {
		cleanupScheduler = scheduler.NewCartCleanupScheduler(
			cartService,
			cfg.Cart.StaleAfter,
			cfg.Cart.CleanupSpec,
		)
		if err := cleanupScheduler.Start(); err != nil {
			logger.Fatal("Failed to start cart cleanup scheduler", err)
		}
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if cleanupScheduler != nil {
		cleanupScheduler.Stop()
	}
	logger.Info("Server stopped successfully")
}
