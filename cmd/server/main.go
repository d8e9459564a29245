/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the schedule engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the holiday table (YAML)
  3. Initialize SQLite store (wrapped in the TTL read cache)
  4. Create API handler with dependencies
  5. Start the cron recalculation job
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: schedules.db)
              Use ":memory:" for an in-memory database
  -holidays   Holiday table YAML path (optional; empty table if unset)
  -cache-ttl  Read-cache TTL (default: 30s; 0 disables the cache)
  -cron       Recalculation cron spec (default: "0 2 1 * *"; empty disables)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the cron job and cache janitor
  4. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/schedule-engine/api"
	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "schedules.db", "SQLite database path")
	holidayPath := flag.String("holidays", "", "holiday table YAML path")
	cacheTTL := flag.Duration("cache-ttl", 30*time.Second, "schedule read-cache TTL (0 disables)")
	cronSpec := flag.String("cron", "0 2 1 * *", "recalculation cron spec (empty disables)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "server").Logger()

	// Holiday table
	holidays := calendar.EmptyTable()
	if *holidayPath != "" {
		table, err := calendar.LoadTable(*holidayPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load holiday table")
		}
		holidays = table
		log.Info().Str("path", *holidayPath).Ints("years", holidays.Years()).Msg("holiday table loaded")
	}

	// Store
	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	var store schedule.Store = db
	var cache *schedule.CachedStore
	if *cacheTTL > 0 {
		cache = schedule.NewCachedStore(db, *cacheTTL)
		store = cache
		defer cache.Stop()
	}

	// Handler and router
	handler := api.NewHandler(store, db, holidays, log)
	router := api.NewRouter(handler)

	// Background recalculation
	if *cronSpec != "" {
		job := api.NewRecalculationJob(handler.Recalc, log.With().Str("component", "recalc-job").Logger())
		if err := job.Start(*cronSpec); err != nil {
			log.Fatal().Err(err).Msg("failed to start recalculation job")
		}
		defer job.Stop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
