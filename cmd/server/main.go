package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vytor/bestofn/internal/api"
	"github.com/vytor/bestofn/internal/config"
	"github.com/vytor/bestofn/internal/db"
	"github.com/vytor/bestofn/internal/logger"
	"github.com/vytor/bestofn/internal/metrics"
	"github.com/vytor/bestofn/internal/repository/sqlite"
	"github.com/vytor/bestofn/internal/services"
	"github.com/vytor/bestofn/internal/source"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Best-of-N Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_window=%d", cfg.DefaultWindow)
	log.Debug("max_document_bytes=%d", cfg.MaxDocumentBytes)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("sweep_interval=%s", cfg.SweepInterval)
	log.Debug("api_rate_limit=%.2f api_rate_burst=%d", cfg.APIRateLimit, cfg.APIRateBurst)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize services
	scoreService := services.NewScoreService(
		sqlite.NewSessionRepository(database.DB),
		source.NewPageSource(cfg.MaxDocumentBytes),
		cfg.DefaultWindow,
		services.WithMetrics(metrics.New(reg)),
	)

	srv := &api.Server{
		ScoreService:     scoreService,
		Templates:        tmpl,
		DB:               database,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Limiter:          rate.NewLimiter(rate.Limit(cfg.APIRateLimit), cfg.APIRateBurst),
		MaxDocumentBytes: cfg.MaxDocumentBytes,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Sweep idle sessions
	g.Go(func() error {
		sweepLog := log.WithPrefix("sweeper")
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				sweepLog.Debug("sweeper stopped")
				return nil
			case <-ticker.C:
				if _, err := scoreService.SweepExpired(logger.NewContext(gctx, sweepLog), cfg.SessionTTL); err != nil {
					sweepLog.Warn("sweep failed: %v", err)
				}
			}
		}
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		log.Debug("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Best-of-N Server Stopped")
	log.Info("===========================================")
}
