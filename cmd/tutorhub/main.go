package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/app"
	"github.com/Freeeeeet/tutorhub/internal/config"
	"github.com/Freeeeeet/tutorhub/internal/controller/api"
	"github.com/Freeeeeet/tutorhub/internal/controller/telegram"
	"github.com/Freeeeeet/tutorhub/internal/payment"
	"github.com/Freeeeeet/tutorhub/internal/realtime"
	"github.com/Freeeeeet/tutorhub/internal/repository"
	"github.com/Freeeeeet/tutorhub/internal/service"
	"github.com/Freeeeeet/tutorhub/internal/video"
	"github.com/Freeeeeet/tutorhub/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting tutorhub",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.String("payment_provider", cfg.PaymentProvider),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(ctx, pool, logger); err != nil {
		return err
	}

	store := repository.NewStore(pool)
	hub := realtime.NewHub(logger)

	opts := []service.BookingOption{
		service.WithLocation(cfg.Location),
		service.WithPublisher(hub),
	}

	if cfg.WherebyAPIKey != "" {
		rooms := video.NewWhereby(cfg.WherebyBaseURL, cfg.WherebyAPIKey, &http.Client{Timeout: 15 * time.Second})
		opts = append(opts, service.WithRoomCreator(rooms))
	} else {
		logger.Warn("WHEREBY_API_KEY is empty, video rooms disabled")
	}

	var (
		botController *telegram.Controller
		notifier      *telegram.Notifier
	)
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		botController = telegram.NewController(b, logger)
		notifier = telegram.NewNotifier(b, store, logger)
		opts = append(opts, service.WithPublisher(notifier))
	} else {
		logger.Warn("TELEGRAM_TOKEN is empty, telegram notifications disabled")
	}

	bookings := service.NewBookingService(store, logger, opts...)
	tutors := service.NewTutorService(store, logger)
	payments := service.NewPaymentService(bookings, store, newPaymentProvider(cfg), logger)
	if !payments.Enabled() {
		logger.Warn("PAYMENT_PROVIDER is empty, only free bookings are available")
	}

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Production:  cfg.IsProduction(),
	}, api.Services{
		Tutors:       tutors,
		Availability: service.NewAvailabilityService(store, logger),
		Bookings:     bookings,
		Payments:     payments,
		Reviews:      service.NewReviewService(store, logger),
		Hub:          hub,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := app.NewScheduler(bookings, cfg.RoomRetryInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if botController != nil {
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Error("Failed to register bot commands", zap.Error(err))
		}
		go botController.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	if notifier != nil {
		notifier.Wait()
	}

	logger.Info("Stopped")
	return nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// newPaymentProvider nil, если оплата не настроена
func newPaymentProvider(cfg *config.Config) payment.Provider {
	switch cfg.PaymentProvider {
	case config.PaymentProviderRazorpay:
		return payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	case config.PaymentProviderMidtrans:
		return payment.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction)
	default:
		return nil
	}
}
