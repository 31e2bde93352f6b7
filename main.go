package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mirajcandles/backend/config"
	"github.com/mirajcandles/backend/controllers"
	"github.com/mirajcandles/backend/database"
	"github.com/mirajcandles/backend/logger"
	"github.com/mirajcandles/backend/middleware"
	"github.com/mirajcandles/backend/models"
	"github.com/mirajcandles/backend/notifier"
	"github.com/mirajcandles/backend/repository"
	"github.com/mirajcandles/backend/routes"
	"github.com/mirajcandles/backend/services"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine in containers; env comes from the runtime there.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Sync()
	log := logger.Log

	db, err := database.ConnectPostgres(cfg, log,
		&models.Order{}, &models.OrderItem{},
		&models.Product{}, &models.Review{},
		&models.User{},
	)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	emailSender, err := notifier.NewSMTPSender(cfg)
	if err != nil {
		log.Fatal("smtp sender init failed", zap.Error(err))
	}
	notifierSvc, err := notifier.New(emailSender, log, 256)
	if err != nil {
		log.Fatal("notifier init failed", zap.Error(err))
	}
	defer notifierSvc.Close()

	orderRepo := repository.NewGormOrderRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	cartRepo := repository.NewRedisCartRepository(redisClient, time.Duration(cfg.CartTTLHours)*time.Hour)

	orderService := services.NewOrderService(orderRepo, userRepo, log)
	paymentService := services.NewPaymentService(orderRepo, userRepo, notifierSvc, cfg.UPIID, cfg.PayeeName, log)
	reviewService := services.NewReviewService(reviewRepo, orderRepo, productRepo, userRepo, log)
	cartService := services.NewCartService(cartRepo, log)

	auth := middleware.NewAuth(cfg.TokenSecret)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	routes.Register(r, auth, routes.Controllers{
		Orders:   controllers.NewOrderController(orderService),
		Payments: controllers.NewPaymentController(paymentService),
		Reviews:  controllers.NewReviewController(reviewService),
		Carts:    controllers.NewCartController(cartService),
	})

	log.Info("starting storefront API", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
