package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "tripdesk-backend/internal/api/http"
	"tripdesk-backend/internal/config"
	"tripdesk-backend/internal/logger"
	"tripdesk-backend/internal/payments"
	"tripdesk-backend/internal/repository/postgres"
	"tripdesk-backend/internal/security"
	"tripdesk-backend/internal/service"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tripdesk Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Payments configuration", "base_url", cfg.Payments.BaseURL, "currency", cfg.Payments.Currency)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Payments Provider Client
	provider := payments.NewClient(
		cfg.Payments.BaseURL,
		cfg.Payments.APIKey,
		cfg.Payments.Currency,
		time.Duration(cfg.Payments.TimeoutSeconds)*time.Second,
	)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
		cfg.Server.PublicBaseURL,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.StaffRepository, tokenManager)
	tripSvc := service.NewTripService(store.TripRepository)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.TripRepository, emailSvc)
	paymentSvc := service.NewPaymentService(
		store.PaymentRepository,
		store.BookingRepository,
		store.TripRepository,
		provider,
		emailSvc,
		cfg.Payments.WebhookSecret,
	)
	reminderSvc := service.NewReminderService(store.BookingRepository, store.TripRepository, emailSvc)

	// Initialize HTTP handlers
	authHandler := httpapi.NewAuthHandler(authSvc)
	tripHandler := httpapi.NewTripHandler(tripSvc)
	bookingHandler := httpapi.NewBookingHandler(bookingSvc)
	paymentHandler := httpapi.NewPaymentHandler(paymentSvc, reminderSvc)

	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, authMiddleware, authHandler, tripHandler, bookingHandler, paymentHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
