/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Workforce Assignment Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML configuration (flags override it)
  3. Initialize SQLite store
  4. Optionally load seed data
  5. Wire engine, handler, and router
  6. Start the auto-assign loop if enabled
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config    YAML configuration file (optional)
  -port      HTTP server port (overrides config)
  -db        SQLite database path (overrides config)
             Use ":memory:" for an in-memory database
  -seed-dir  Directory with seed JSON files, loaded at startup
  -truncate  Wipe existing data before seeding

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the auto-assign loop
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/workforce.db"

  # Run with a config file plus seed data
  ./server -config=config.yaml -seed-dir=./seed -truncate

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: The YAML schema behind -config
  - seed/seed.go: Seed file format
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/metrics"
	"github.com/warp/workforce-engine/seed"
	"github.com/warp/workforce-engine/solver"
	"github.com/warp/workforce-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file (optional)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	seedDir := flag.String("seed-dir", "", "Directory with seed JSON files (overrides config)")
	truncate := flag.Bool("truncate", false, "Wipe existing data before seeding")
	flag.Parse()

	// Configuration
	var files []string
	if *configPath != "" {
		files = append(files, *configPath)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *seedDir != "" {
		cfg.Seed.Dir = *seedDir
	}
	if *truncate {
		cfg.Seed.Truncate = true
	}

	metrics.RegisterDefault()

	// Initialize store
	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed data
	if cfg.Seed.Dir != "" {
		data, err := seed.Load(cfg.Seed.Dir)
		if err != nil {
			log.Fatalf("Failed to load seed data: %v", err)
		}
		counts, err := seed.Apply(context.Background(), store, data, cfg.Seed.Truncate)
		if err != nil {
			log.Fatalf("Failed to apply seed data: %v", err)
		}
		log.Printf("🌱 Seeded %d positions, %d workers, %d tasks, %d assignments from %s",
			counts.Positions, counts.Workers, counts.Tasks, counts.Assignments, cfg.Seed.Dir)
	}

	// Engine, with solver effort reported to /metrics
	eng := engine.New(meteredSolver{inner: &solver.BranchBound{NodeLimit: cfg.Engine.NodeLimit}})

	// Handler with engine defaults from config
	handler := api.NewHandler(store, eng)
	strategy, err := engine.ParseStrategy(cfg.Engine.Strategy)
	if err != nil {
		log.Fatalf("Invalid strategy in config: %v", err)
	}
	handler.DefaultStrategy = strategy
	handler.DefaultCapacity = cfg.Engine.DailyCapacity

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	// Background assignment loop
	assigner := api.NewAutoAssigner(handler)
	assigner.Enabled = cfg.AutoAssign.Enabled
	assigner.CheckInterval = time.Duration(cfg.AutoAssign.IntervalSeconds) * time.Second
	assigner.Horizon = cfg.AutoAssign.HorizonDays
	assigner.Start()
	defer assigner.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("📊 API available at http://localhost:%d/api", cfg.Server.Port)
		log.Printf("📈 Metrics at http://localhost:%d/metrics", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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

// meteredSolver wraps the branch-and-bound backend and reports explored
// node counts to the metrics registry.
type meteredSolver struct {
	inner solver.Solver
}

func (m meteredSolver) Solve(p solver.Problem) (solver.Solution, error) {
	sol, err := m.inner.Solve(p)
	if err == nil {
		metrics.SolverNodes.Observe(float64(sol.Nodes))
	}
	return sol, err
}
