// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rloggen/rloggen/internal/config"
	"github.com/rloggen/rloggen/internal/logging"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
	httptransport "github.com/rloggen/rloggen/internal/transport/http"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := logging.NewLogger(cfg.Env)

	store := pattern.NewStore(cfg.PatternDir)
	if err := store.Reload(); err != nil {
		log.Fatalf("pattern load failed: %v", err)
	}

	handler := httptransport.NewRouter(httptransport.Deps{
		Patterns:            store,
		Registry:            provider.NewRegistry(),
		Logger:              logger,
		AdminToken:          cfg.AdminToken,
		GenerateLimitPerMin: cfg.GenerateLimitPerMin,
		Version:             Version,
		Commit:              Commit,
		BuildDate:           BuildDate,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening",
			"addr", cfg.HTTPAddr,
			"patterns", len(store.List()),
			"version", Version,
			"commit", Commit,
			"build_date", BuildDate,
		)

		if err := srv.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}
