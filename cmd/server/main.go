package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/oohworks/treasury-engine/internal/config"
	"github.com/oohworks/treasury-engine/internal/handler"
	"github.com/oohworks/treasury-engine/internal/repository"
	"github.com/oohworks/treasury-engine/internal/service"
	"github.com/oohworks/treasury-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository(db)
	collectibleRepo := repository.NewCollectibleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Initialize service and handlers
	treasuryService := service.NewTreasuryService(bookingRepo, collectibleRepo, invoiceRepo, redisClient, cfg)
	treasuryHandler := handler.NewTreasuryHandler(treasuryService, cfg)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg)

	// Setup routes
	router := setupRoutes(treasuryHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(treasuryHandler *handler.TreasuryHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/bookings/{bookingId}/schedule/preview", treasuryHandler.PreviewSchedule).Methods("POST")
	api.HandleFunc("/bookings/{bookingId}/collectibles", treasuryHandler.CreateCollectibles).Methods("POST")
	api.HandleFunc("/bookings/{bookingId}/schedule", treasuryHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/collectibles", treasuryHandler.ListCollectibles).Methods("GET")
	api.HandleFunc("/collectibles/{collectibleId}/status", treasuryHandler.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/collectibles/{collectibleId}/invoice", treasuryHandler.GetInvoice).Methods("GET")

	return router
}
