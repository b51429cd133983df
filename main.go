package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"booru-bridge/internal/database"
	"booru-bridge/internal/handlers"
	"booru-bridge/internal/logging"
	"booru-bridge/internal/mediatypes"
	"booru-bridge/internal/metrics"
	"booru-bridge/internal/middleware"
	"booru-bridge/internal/posts"
	"booru-bridge/internal/startup"
	"booru-bridge/internal/thumbnail"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
	}
	startup.LogToolAvailability()

	// Open the index read-only
	dbStart := time.Now()
	store, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to open index database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	resolver := mediatypes.NewResolver()
	postSvc := posts.New(store, resolver)

	// Thumbnail jobs run under their own context: a caller abandoning
	// a request must not cancel a generation other callers share.
	thumbnail.InitVips()
	thumbs, err := thumbnail.New(context.Background(), config.ThumbnailDir, resolver, config.CheapJobs, config.ExpensiveJobs)
	if err != nil {
		startup.LogFatal("Failed to initialize thumbnail generator: %v", err)
	}

	sweeper := thumbnail.NewSweeper(config.ThumbnailDir, config.Retention)
	sweeper.Start(config.SweepInterval)

	h := handlers.New(store, postSvc, thumbs, resolver, config.ForcedQuery)
	router := setupRouter(h, config)

	// Middleware: metrics innermost, then access logging, then
	// compression on the outside so log byte counts reflect the wire.
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.Compression()(handler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go handleShutdown(srv, sweeper, store, shutdownDone)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// The gallery contract lives under /api, where clients resolve
	// their relative content and thumbnail URLs.
	h.Register(r.PathPrefix("/api").Subrouter())

	return r
}

func handleShutdown(srv *http.Server, sweeper *thumbnail.Sweeper, store *database.Store, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sweeper.Stop()
	startup.LogShutdownStepComplete("Sweeper stopped")

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	thumbnail.ShutdownVips()
	startup.LogShutdownStepComplete("Image pipeline shut down")

	if err := store.Close(); err != nil {
		logging.Warn("Index close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Index closed")
	}

	startup.LogShutdownComplete()
}
