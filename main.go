package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_backend/config"
	"storefront_backend/internal/events"
	"storefront_backend/internal/metrics"
	"storefront_backend/internal/session"
	"storefront_backend/internal/ws"
	"storefront_backend/server"
)

const sessionPurgeInterval = time.Hour

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.ResetDB {
		err = config.ResetAndMigrate(db)
	} else {
		err = config.Migrate(db)
		if err == nil && cfg.SeedDB {
			err = config.Seed(db)
		}
	}
	if err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := ws.NewHub()
	go hub.Run()

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.KafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
	}
	defer publisher.Close()
	go events.NewRelay(db, publisher, cfg.RelayEvery).Run(ctx)

	go purgeSessions(ctx, session.NewStore(db, cfg.SessionTTL))

	app := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Hub:     hub,
		Metrics: metrics.New(),
	})

	go func() {
		log.Printf("🚀 Server starting on host %s in port %s", cfg.HOST, cfg.AppPort)
		if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server exiting")
}

func purgeSessions(ctx context.Context, store *session.Store) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				log.Printf("Session purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired cart sessions", n)
			}
		}
	}
}
