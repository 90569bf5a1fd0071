package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/oohworks/treasury-engine/internal/config"
	"github.com/oohworks/treasury-engine/internal/repository"
	"github.com/oohworks/treasury-engine/internal/service"
)

func main() {
	log.Println("Starting treasury scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	bookingRepo := repository.NewBookingRepository(db)
	collectibleRepo := repository.NewCollectibleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// The scheduler runs without redis; there is nothing to cache here.
	treasuryService := service.NewTreasuryService(bookingRepo, collectibleRepo, invoiceRepo, nil, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job to flip pending collectibles past their due date
	_, err = c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		updated, err := treasuryService.MarkOverdue(ctx, time.Now().In(location))
		if err != nil {
			log.Printf("Overdue update job failed: %v", err)
			return
		}
		log.Printf("Overdue update job finished: %d collectibles marked overdue", updated)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue update job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}
