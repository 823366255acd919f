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

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"

	"github.com/sirdesai22/event-site/internal/config"
	"github.com/sirdesai22/event-site/internal/db"
	"github.com/sirdesai22/event-site/internal/elastic"
	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/payments"
	"github.com/sirdesai22/event-site/internal/realtime"
	"github.com/sirdesai22/event-site/internal/server"
	"github.com/sirdesai22/event-site/internal/services"
	"github.com/sirdesai22/event-site/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("❌ failed to connect to Postgres: %v", err)
	}
	if err := db.Migrate(pg); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	idp := identity.NewProvider(pg, 0)
	if err := db.Seed(ctx, pg, idp, cfg); err != nil {
		log.Fatalf("❌ seed failed: %v", err)
	}

	metrics.Register()

	pay, err := payments.NewProvider(cfg)
	if err != nil {
		log.Fatalf("payments: %v", err)
	}

	hub := realtime.NewHub()
	services.RegisterFeeds(hub, pg)

	var search *es.Client
	if cfg.ElasticURL != "" {
		search, err = elastic.Connect(cfg.ElasticURL)
		if err != nil {
			log.Fatalf("❌ failed to create Elasticsearch client: %v", err)
		}
		if err := elastic.EnsureIndexes(ctx, search); err != nil {
			log.Printf("⚠️ elasticsearch indexes not ready, searching via SQL: %v", err)
			search = nil
		}
	}

	worker := &workers.FeedWorker{DB: pg, ES: search, Hub: hub}
	go worker.Run(ctx)
	go worker.RetryDLQ(ctx)

	srv := server.New(cfg, server.Deps{
		DB:       pg,
		Identity: idp,
		Payments: pay,
		Hub:      hub,
		ES:       search,
		Worker:   worker,
	})
	go func() {
		log.Printf("🧭 API running on %s (payments: %s)", cfg.HTTPAddr, pay.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API listener failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down…")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
