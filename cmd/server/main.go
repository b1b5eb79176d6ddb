/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the brokerage time & bonus engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env / environment)
  2. Initialize SQLite store
  3. Build domain services (clock, sales, bonus engine, review workflow)
  4. Start the sync channel keeping the alert snapshot fresh
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the sync loop and close the database
  4. Exit

SEE ALSO:
  - config/config.go: Environment variables and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/warp/brokerage-engine/api"
	"github.com/warp/brokerage-engine/bonus"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/config"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/review"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/store/sqlite"
	"github.com/warp/brokerage-engine/timeclock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := sqlite.New(cfg.App.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	calc, err := payperiod.NewCalculator(cfg.Engine.BiweeklyAnchor)
	if err != nil {
		log.Fatalf("Invalid biweekly anchor: %v", err)
	}

	b := bus.New()
	clockSvc := timeclock.NewService(store, b)
	saleSvc := sales.NewService(store, store, store, calc, b, cfg.Engine.HighValueThreshold)
	workflow := review.NewWorkflow(store, store, b)

	// Reconciled by the sync channel below; the status endpoint reads it.
	var activeAlerts atomic.Int64

	handler := &api.Handler{
		Employees:           store,
		EmployeeWriter:      store,
		Clock:               clockSvc,
		Sales:               saleSvc,
		SaleStore:           store,
		ReviewStore:         store,
		Notifications:       store,
		Workflow:            workflow,
		Engine:              bonus.NewEngine(cfg.Engine.HighValueThreshold),
		Periods:             calc,
		WeeklyOvertimeHours: cfg.Engine.WeeklyOvertimeHours,
		ActiveAlerts:        activeAlerts.Load,
		Now:                 time.Now,
	}

	// The sync channel keeps the alert snapshot fresh: bus events from
	// this process broadcast to siblings, and the poll tick covers anything
	// missed. Single-process deployments use the local hub.
	hub := bus.NewLocalHub()
	syncCh := bus.NewSyncChannel(hub.Join(), func(ctx context.Context) error {
		pending, err := store.NotificationsByStatus(ctx, review.StatusPending)
		if err != nil {
			return err
		}
		reviewed, err := store.NotificationsByStatus(ctx, review.StatusReviewed)
		if err != nil {
			return err
		}
		activeAlerts.Store(int64(len(pending) + len(reviewed)))
		return nil
	})
	syncCh.PollInterval = cfg.Sync.PollInterval
	syncCh.Debounce = cfg.Sync.Debounce
	syncCh.Start()
	defer syncCh.Stop()

	for _, kind := range []bus.Kind{bus.KindSaleRecorded, bus.KindReviewStatusChanged} {
		b.Subscribe(kind, func(bus.Event) { syncCh.Notify(string(kind)) })
	}

	auth := api.NewAuth(cfg.JWT.Secret)
	router := api.NewRouter(handler, auth, cfg.App.Env)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
