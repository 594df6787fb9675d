// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rloggen/rloggen/internal/config"
	"github.com/rloggen/rloggen/internal/generator"
	"github.com/rloggen/rloggen/internal/logging"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
	"github.com/rloggen/rloggen/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.Env)

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	switch os.Args[1] {
	case "run":
		if err := runLoop(ctx, cfg, logger, true); err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
	case "once":
		if err := runLoop(ctx, cfg, logger, false); err != nil {
			logger.Error("generation failed", "error", err)
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(cfg, logger); err != nil {
			logger.Error("validation failed", "error", err)
			os.Exit(1)
		}
		logger.Info("validation passed")
	default:
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func runLoop(ctx context.Context, cfg config.Config, logger *slog.Logger, loop bool) error {
	patterns, err := pattern.LoadDir(cfg.PatternDir)
	if err != nil {
		return err
	}

	sink, closeSink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}
	defer closeSink()

	w, err := worker.New(worker.Deps{
		Logger:   logger,
		Sink:     sink,
		Registry: provider.NewRegistry(),
		Patterns: patterns,
	})
	if err != nil {
		return err
	}

	logger.Info("generator started",
		"patterns", w.PatternCount(),
		"output", cfg.Output,
		"tick", cfg.TickInterval,
	)

	if !loop {
		return w.ProcessOnce(ctx)
	}

	if err := w.Run(ctx, cfg.TickInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("generator stopped")
	return nil
}

// runValidate checks every pattern file: the document must parse and a
// generator must be constructible from it, which for windows_event
// patterns runs the full record validation.
func runValidate(cfg config.Config, logger *slog.Logger) error {
	patterns, err := pattern.LoadDir(cfg.PatternDir)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no pattern files found in %s", cfg.PatternDir)
	}

	registry := provider.NewRegistry()
	failed := 0
	for _, p := range patterns {
		if _, err := generator.New(p, generator.Deps{Logger: logger, Registry: registry}); err != nil {
			logger.Error("pattern invalid", "pattern", p.Name, "error", err)
			failed++
			continue
		}
		logger.Info("pattern valid", "pattern", p.Name, "generator", p.Generator, "enabled", p.Enabled)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d patterns invalid", failed, len(patterns))
	}
	return nil
}

func openSink(output string) (io.Writer, func(), error) {
	if output == "" || output == "stdout" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: rloggen <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run       generate records continuously until interrupted")
	fmt.Fprintln(w, "  once      run a single generation pass over all patterns")
	fmt.Fprintln(w, "  validate  validate every pattern file and exit")
}
