package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ziyonstar/config"
	"ziyonstar/cron"
	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/handlers"
	"ziyonstar/middleware"
	"ziyonstar/routes"
	"ziyonstar/services/assignment"
	"ziyonstar/services/booking"
	"ziyonstar/services/commission"
	"ziyonstar/services/notification"
	"ziyonstar/services/payment"
	"ziyonstar/services/realtime"
	"ziyonstar/services/storage"
	"ziyonstar/services/technician"
	"ziyonstar/services/wallet"
	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	mongoClient, err := database.Connect(rootCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.DatabaseName)

	// repositories.
	bookingRepo := repository.NewMongoBookingRepo(db)
	technicianRepo := repository.NewMongoTechnicianRepo(db)
	commissionRepo := repository.NewMongoCommissionRepo(db)
	reviewRepo := repository.NewMongoReviewRepo(db)
	notificationRepo := repository.NewMongoNotificationRepo(db)
	userRepo := repository.NewMongoUserRepo(db)

	indexers := map[string]interface {
		EnsureIndexes(ctx context.Context) error
	}{
		"bookings":      bookingRepo,
		"technicians":   technicianRepo,
		"commissions":   commissionRepo,
		"reviews":       reviewRepo,
		"notifications": notificationRepo,
	}
	for name, repo := range indexers {
		if err := repo.EnsureIndexes(rootCtx); err != nil {
			logger.Warn("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	health := utils.NewHealthMonitor(60 * time.Second)
	health.Register("mongo", func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) })

	// Redis backs the OTP attempt limiter and the notification queue; both degrade when it is down.
	cacheClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		logger.Warn("main: Redis unavailable, OTP limiting and queued notifications disabled", zap.Error(err))
	} else {
		health.Register("redis", func(ctx context.Context) error { return cacheClient.Ping(ctx).Err() })
	}

	// push delivery.
	var pusher notification.Pusher
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := utils.NewMessagingClient(rootCtx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("main: push notifications disabled", zap.Error(err))
		} else {
			pusher = fcm
		}
	}

	deliverer := &notification.DefaultDeliverer{
		NotificationRepo: notificationRepo,
		TechnicianRepo:   technicianRepo,
		UserRepo:         userRepo,
		Pusher:           pusher,
		Logger:           logger,
	}

	var dispatcher notification.Dispatcher = &notification.DirectDispatcher{Deliverer: deliverer, Logger: logger}
	var worker *cron.NotificationWorker
	var queueClient *asynq.Client
	if cacheClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		worker = cron.NewNotificationWorker(redisOpts, cfg.NotificationQueue, deliverer, logger)
		if err := worker.Start(); err != nil {
			logger.Error("main: notification worker unavailable, delivering in-process", zap.Error(err))
			worker = nil
		} else {
			queueClient = asynq.NewClient(redisOpts)
			dispatcher = &notification.QueueDispatcher{Client: queueClient, Queue: cfg.NotificationQueue, MaxRetry: 5}
			go cron.MonitorRedisConnection(rootCtx, cacheClient, logger)
		}
	}

	// realtime broadcast.
	var publisher *realtime.Publisher
	if cfg.RabbitMQURL != "" {
		publisher, err = realtime.NewPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Error("main: realtime broadcast disabled", zap.Error(err))
			publisher = nil
		}
	}

	// services.
	assigner := &assignment.DefaultAssignmentService{TechnicianRepo: technicianRepo}

	bookingService := &booking.DefaultBookingService{
		BookingRepo:    bookingRepo,
		TechnicianRepo: technicianRepo,
		ReviewRepo:     reviewRepo,
		Assigner:       assigner,
		Notifier:       dispatcher,
		Logger:         logger,
	}
	if publisher != nil {
		bookingService.Broadcaster = publisher
	}
	if cacheClient != nil && cfg.OTPMaxAttempts > 0 {
		bookingService.OTPLimiter = &booking.RedisOTPLimiter{
			Client:      cacheClient,
			MaxAttempts: cfg.OTPMaxAttempts,
			Window:      cfg.OTPAttemptWindow,
		}
	}

	walletService := &wallet.DefaultWalletService{BookingRepo: bookingRepo, CommissionRepo: commissionRepo}
	commissionService := &commission.DefaultCommissionService{Repo: commissionRepo}
	technicianService := &technician.DefaultTechnicianService{Repo: technicianRepo, ReviewRepo: reviewRepo, Logger: logger}
	inboxService := &notification.DefaultInboxService{Repo: notificationRepo, UserRepo: userRepo}

	var paymentService payment.PaymentService
	if cfg.StripeKey != "" {
		svc := &payment.DefaultPaymentService{
			BookingRepo: bookingRepo,
			Gateway:     payment.NewStripeGateway(cfg.StripeKey, cfg.StripeWebhookSecret),
			Currency:    cfg.PaymentCurrency,
			Logger:      logger,
		}
		if publisher != nil {
			svc.Broadcaster = publisher
		}
		paymentService = svc
	} else {
		logger.Info("main: STRIPE_KEY not set, payments disabled")
	}

	var storageService storage.StorageService
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL)
		if err != nil {
			logger.Error("main: pickup photo uploads disabled", zap.Error(err))
		} else {
			storageService = cld
		}
	}

	if cfg.JWTSecret == "" {
		logger.Warn("main: JWT_SECRET not set, only the admin token can authenticate")
	}

	handlerBundle := &handlers.HandlerBundle{
		Tokens:       utils.NewTokenManager(cfg.JWTSecret),
		AdminToken:   cfg.AdminToken,
		Booking:      &handlers.BookingHandler{BookingService: bookingService, WalletService: walletService},
		Technician:   &handlers.TechnicianHandler{TechnicianService: technicianService},
		Commission:   &handlers.CommissionHandler{CommissionService: commissionService},
		Notification: &handlers.NotificationHandler{InboxService: inboxService},
		Payment:      &handlers.PaymentHandler{PaymentService: paymentService, BookingService: bookingService},
		Storage:      &handlers.StorageHandler{StorageSvc: storageService},
		Health:       &handlers.HealthHandler{Monitor: health},
	}

	health.Start(rootCtx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("main: starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stop()
	shutdownBackground(logger, worker, queueClient, publisher, cacheClient, mongoClient)
	logger.Info("main: server stopped gracefully")
}

func shutdownBackground(logger *zap.Logger, worker *cron.NotificationWorker, queueClient *asynq.Client,
	publisher *realtime.Publisher, cacheClient *redis.Client, mongoClient *mongo.Client) {
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Warn("main: failed to close queue client", zap.Error(err))
		}
	}
	if publisher != nil {
		publisher.Close()
	}
	if cacheClient != nil {
		_ = cacheClient.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}
}
