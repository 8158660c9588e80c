package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/diagnosis/luxstay-rentals/internal/http/handlers"
	"github.com/diagnosis/luxstay-rentals/internal/lock"
	"github.com/diagnosis/luxstay-rentals/internal/payments"
	"github.com/diagnosis/luxstay-rentals/internal/repo/postgres"
	"github.com/diagnosis/luxstay-rentals/internal/service"
	"github.com/diagnosis/luxstay-rentals/pkg/config"
	"github.com/diagnosis/luxstay-rentals/pkg/database"
	"github.com/diagnosis/luxstay-rentals/pkg/events"
	"github.com/diagnosis/luxstay-rentals/pkg/logger"
	mw "github.com/diagnosis/luxstay-rentals/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MinConns, cfg.Database.MaxConns, cfg.Database.MaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to lock store
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Payment collaborator
	var processor payments.Processor
	if cfg.Stripe.DevMode || cfg.Stripe.SecretKey == "" {
		processor = payments.NewDevProcessor()
	} else {
		processor = payments.NewStripeProcessor(cfg.Stripe.SecretKey)
	}

	store := postgres.NewStore(pool)
	locker := lock.NewManager(lock.NewRedisStore(redisClient))
	bookingService := service.NewBookingService(store, locker, eventBus, processor, cfg.Booking)

	h := handlers.New(bookingService)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("bookings"))
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.Health)
	h.Routes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting bookings API", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
