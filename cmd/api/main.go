package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/app"
	"github.com/linguameet/linguameet/internal/config"
	"github.com/linguameet/linguameet/internal/httpapi"
	"github.com/linguameet/linguameet/internal/repository"
	"github.com/linguameet/linguameet/internal/service"
	"github.com/linguameet/linguameet/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	availRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notifRepo := repository.NewNotificationRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	socialRepo := repository.NewSocialRepository(pool)

	hub := ws.NewHub(logger)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, logger)
	availService := service.NewAvailabilityService(availRepo, logger)
	slotService := service.NewSlotService(availRepo, bookingRepo,
		time.Duration(cfg.SlotDurationMinutes)*time.Minute, logger)
	notifService := service.NewNotificationService(notifRepo, logger)
	chatService := service.NewChatService(chatRepo, bookingRepo, hub, logger)
	bookingService := service.NewBookingService(bookingRepo, userRepo,
		notifService, chatService, cfg.BookingAutoConfirm, logger)
	socialService := service.NewSocialService(socialRepo, userRepo, bookingRepo, logger)
	userService := service.NewUserService(userRepo, bookingRepo, socialRepo, cfg.AvatarDir, logger)
	paymentService := service.NewPaymentService(userRepo,
		cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FrontendURL, logger)

	server := httpapi.New(httpapi.Deps{
		Auth:           authService,
		Users:          userService,
		Availability:   availService,
		Slots:          slotService,
		Bookings:       bookingService,
		Notifications:  notifService,
		Chat:           chatService,
		Social:         socialService,
		Payments:       paymentService,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		AvatarDir:      cfg.AvatarDir,
		Logger:         logger,
	})

	go func() {
		logger.Info("Starting API server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := server.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
