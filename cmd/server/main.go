package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapdesk/statusd/internal/api"
	"github.com/zapdesk/statusd/internal/config"
	"github.com/zapdesk/statusd/internal/database"
	"github.com/zapdesk/statusd/internal/detector"
	"github.com/zapdesk/statusd/internal/jobs"
	"github.com/zapdesk/statusd/internal/notifier"
	"github.com/zapdesk/statusd/internal/platform"
	"github.com/zapdesk/statusd/internal/probe"
	"github.com/zapdesk/statusd/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	st := store.New(db, cfg.Retention)

	// Cache/broker endpoint for the redis probe
	pinger := platform.NewRedisPinger(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer pinger.Close()

	// Probe set over the platform collaborators
	probes := probe.NewSet(
		probe.NewAPIProbe(cfg.Probes.SelfURL, cfg.Probes.HTTPTimeout),
		probe.NewDatabaseProbe(db, cfg.Probes.QueryTimeout),
		probe.NewRedisProbe(pinger, cfg.Probes.QueryTimeout),
		probe.NewWhatsAppProbe(platform.NewConnectionRegistry(db), cfg.Probes.QueryTimeout),
		probe.NewWebhookProbe(platform.NewDeliveryLog(db), cfg.Probes.WebhookWindow,
			cfg.Probes.WebhookDegraded, cfg.Probes.WebhookOutage, cfg.Probes.QueryTimeout),
		probe.NewSchedulerProbe(platform.NewDispatchQueue(db), cfg.Probes.SchedulerGrace,
			cfg.Probes.SchedulerStuckMax, cfg.Probes.QueryTimeout),
		probe.NewBroadcastProbe(platform.NewCampaignBoard(db), cfg.Probes.BroadcastBound,
			cfg.Probes.QueryTimeout),
	)

	n := notifier.New(st)
	det := detector.New(st, n)

	// Scheduler: bootstrap seeds the snapshot before the cron loop starts
	scheduler := jobs.NewScheduler(st, probes, det)
	scheduler.Bootstrap(context.Background())
	scheduler.Start()
	defer scheduler.Stop()

	// Setup API router
	router := api.NewRouter(st, n)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
