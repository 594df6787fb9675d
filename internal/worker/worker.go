// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rloggen/rloggen/internal/generator"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
)

type Deps struct {
	Logger   *slog.Logger
	Sink     io.Writer
	Registry *provider.Registry
	Patterns []*pattern.Pattern
}

type entry struct {
	name string
	rate int
	gen  generator.Generator
}

// Worker fans loaded patterns out to the sink: each tick it emits
// every enabled pattern's records at the pattern's rate. Per-record
// failures are logged and never stop the loop.
type Worker struct {
	logger  *slog.Logger
	sink    io.Writer
	entries []entry
}

func New(deps Deps) (*Worker, error) {
	l := deps.Logger
	if l == nil {
		l = slog.Default()
	}

	sink := deps.Sink
	if sink == nil {
		sink = os.Stdout
	}

	registry := deps.Registry
	if registry == nil {
		registry = provider.NewRegistry()
	}

	w := &Worker{logger: l, sink: sink}
	for _, p := range deps.Patterns {
		if !p.Enabled {
			l.Info("pattern disabled, skipping", "pattern", p.Name)
			continue
		}
		gen, err := generator.New(p, generator.Deps{Logger: l, Registry: registry})
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
		}
		w.entries = append(w.entries, entry{name: p.Name, rate: p.Rate, gen: gen})
	}

	return w, nil
}

// PatternCount reports how many enabled patterns the worker drives.
func (w *Worker) PatternCount() int {
	return len(w.entries)
}

// ProcessOnce runs one full pass over the enabled patterns. Generation
// errors are logged and skipped; a sink write error is returned because
// nothing further can be emitted.
func (w *Worker) ProcessOnce(ctx context.Context) error {
	for _, e := range w.entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := 0; i < e.rate; i++ {
			record, err := e.gen.Generate()
			if err != nil {
				w.logger.Error("record generation failed",
					"pattern", e.name,
					"error", err,
				)
				break
			}
			if _, err := fmt.Fprintln(w.sink, record); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}
	return nil
}

// Run ticks ProcessOnce at the given interval until ctx is done.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("generation pass failed", "error", err)
			}
		}
	}
}
