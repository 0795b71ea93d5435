package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"degreefinder/internal/catalog"
	"degreefinder/internal/eligibility"
	"degreefinder/internal/platform/config"
	"degreefinder/internal/platform/health"
	"degreefinder/internal/platform/httpserver"
	"degreefinder/internal/platform/logger"
	"degreefinder/internal/platform/metrics"
	httptransport "degreefinder/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing degreefinder",
		"addr", cfg.Addr,
		"data_root", cfg.DataRoot,
	)

	m := metrics.New()
	loader := catalog.NewFileLoader(cfg.DataRoot)
	service := eligibility.New(loader,
		eligibility.WithMetrics(m),
		eligibility.WithLogger(log),
	)

	healthHandler := health.New(os.Getenv("DEGREEFINDER_ENV"))
	handler := httptransport.NewHandler(service, loader, log)
	router := httptransport.NewRouter(handler, healthHandler, log, m, cfg.RequestTimeout)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
