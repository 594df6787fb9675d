// SPDX-License-Identifier: Apache-2.0

// Package generator turns loaded patterns into log records. Each
// generator type owns one production strategy; the windows_event
// generator sequences the record validators and the serializer as a
// single entry operation.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/rloggen/rloggen/internal/metrics"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
	"github.com/rloggen/rloggen/internal/winevent"
)

// Generator produces one log record per call. Generators hold no
// mutable per-record state, so a single instance is safe to call from
// parallel goroutines.
type Generator interface {
	Generate() (string, error)
}

type Deps struct {
	Logger   *slog.Logger
	Registry *provider.Registry
}

type constructor func(p *pattern.Pattern, deps Deps) (Generator, error)

// constructors maps the pattern's generator type to its builder. The
// table is fixed at startup.
var constructors = map[string]constructor{
	pattern.TypeTemplate:     newTemplateGenerator,
	pattern.TypeRaw:          newRawGenerator,
	pattern.TypeWindowsEvent: newWindowsEventGenerator,
}

// New builds the generator selected by the pattern.
func New(p *pattern.Pattern, deps Deps) (Generator, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = provider.NewRegistry()
	}

	build, ok := constructors[p.Generator]
	if !ok {
		return nil, fmt.Errorf("pattern %s: unknown generator type %q", p.Name, p.Generator)
	}
	return build(p, deps)
}

// countingResolver wraps the provider registry so that every
// resolution fallback shows up in the metrics.
type countingResolver struct {
	registry *provider.Registry
}

func (c countingResolver) Resolve(spec string) (string, error) {
	value, err := c.registry.Resolve(spec)
	if err != nil {
		metrics.IncProviderFallback()
	}
	return value, err
}

var _ winevent.Resolver = countingResolver{}
