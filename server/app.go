// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"speakwise/platform/common/usage"
	"speakwise/platform/monitor/faults"
	"speakwise/platform/monitor/latency"
	"speakwise/platform/monitor/ratelimit"
	"speakwise/platform/pipeline"
	"speakwise/platform/shared/logger"
)

// bucketHTTPRequest tracks whole-request latency across all routes
const bucketHTTPRequest = "http-request"

// shutdownTimeout bounds graceful drain on SIGINT/SIGTERM
const shutdownTimeout = 10 * time.Second

// App owns every component of the service. Components are explicit
// instances wired here once and passed by reference, so tests can build
// isolated Apps without cross-test interference.
type App struct {
	cfg      Config
	log      *logger.Logger
	acct     *usage.Accountant
	tracker  *latency.Tracker
	limiter  *ratelimit.Limiter
	monitor  *faults.Monitor
	recorder *usage.Recorder
	pipe     *pipeline.Pipeline
	metrics  *metrics
	handler  http.Handler
	db       *sql.DB
	ready    atomic.Bool
}

// NewApp wires the telemetry layer and the HTTP surface from configuration
func NewApp(cfg Config) (*App, error) {
	log := logger.New("server")
	acct := usage.NewAccountant()
	tracker := latency.New(log)

	tiers := ratelimit.DefaultTiers()
	if cfg.RateLimitConfigPath != "" {
		loaded, err := ratelimit.LoadTiers(cfg.RateLimitConfigPath)
		if err != nil {
			return nil, fmt.Errorf("rate limit config: %w", err)
		}
		tiers = loaded
	}
	limiter := ratelimit.NewLimiter(tiers, log)

	var forwarder faults.Forwarder
	if cfg.FaultWebhookURL != "" {
		forwarder = faults.NewWebhookForwarder(cfg.FaultWebhookURL, log)
	}
	monitor := faults.NewMonitor(log, acct, forwarder)

	var db *sql.DB
	var recorder *usage.Recorder
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open analytics store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			// Usage events are best-effort; the service starts anyway
			log.Warn("", "", "Analytics store unreachable, events will be retried per insert",
				map[string]interface{}{"error": err.Error()})
		}
		cancel()
		recorder = usage.NewRecorder(db)
	}

	pipe := pipeline.New(
		pipeline.BuiltinTranscriber{},
		pipeline.BuiltinLanguageModel{},
		pipeline.BuiltinSynthesizer{},
		tracker, acct, recorder, log, cfg.InstanceID,
	)

	a := &App{
		cfg:      cfg,
		log:      log,
		acct:     acct,
		tracker:  tracker,
		limiter:  limiter,
		monitor:  monitor,
		recorder: recorder,
		pipe:     pipe,
		metrics:  newMetrics(),
		db:       db,
	}
	a.handler = a.buildHandler()
	return a, nil
}

// Monitor exposes the fault monitor so main can supervise the run loop
func (a *App) Monitor() *faults.Monitor {
	return a.monitor
}

// Handler exposes the full middleware-wrapped handler for tests
func (a *App) Handler() http.Handler {
	return a.handler
}

// buildHandler assembles the router and middleware chain
func (a *App) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.instrumentMiddleware)

	r.HandleFunc("/health", a.handleHealth).Methods("GET")
	r.Handle("/prometheus", promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{})).Methods("GET")

	r.HandleFunc("/api/v1/auth/token",
		a.rateLimit(ratelimit.TierAuth, a.handleToken)).Methods("POST")
	r.HandleFunc("/api/v1/sessions/analyze",
		a.rateLimit(ratelimit.TierIntensive, a.handleAnalyze)).Methods("POST")
	r.HandleFunc("/api/v1/stats/global",
		a.rateLimit(ratelimit.TierGeneral, a.handleGlobalStats)).Methods("GET")
	r.HandleFunc("/api/v1/stats/users/{id}",
		a.rateLimit(ratelimit.TierGeneral, a.handleUserStats)).Methods("GET")
	r.HandleFunc("/api/v1/latency",
		a.rateLimit(ratelimit.TierGeneral, a.handleLatency)).Methods("GET")
	r.HandleFunc("/api/v1/stats/reset",
		a.rateLimit(ratelimit.TierGeneral, a.handleReset)).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(a.requestIDMiddleware(a.recoverMiddleware(r)))
}

// Run starts the HTTP server and blocks until shutdown. It is intended to
// be wrapped by Monitor().Supervise so a synchronous escape terminates the
// process through the fault pipeline.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.ready.Store(true)
	a.log.Info("", "", "SpeakWise server started", map[string]interface{}{"port": a.cfg.Port})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		a.log.Info("", "", "Shutting down", map[string]interface{}{"signal": sig.String()})
	}

	a.ready.Store(false)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases background resources (janitor, database handle)
func (a *App) Close() {
	a.limiter.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}
