// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rloggen/rloggen/internal/metrics"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/provider"
	"github.com/rloggen/rloggen/internal/winevent"
)

// templateGenerator produces flat log lines from a format string with
// {field} tokens. Each field's value specification goes through the
// value provider; {timestamp} is always available.
type templateGenerator struct {
	name     string
	format   string
	fields   *winevent.Map
	registry *provider.Registry
	logger   *slog.Logger
}

func newTemplateGenerator(p *pattern.Pattern, deps Deps) (Generator, error) {
	return &templateGenerator{
		name:     p.Name,
		format:   p.Format,
		fields:   p.Fields,
		registry: deps.Registry,
		logger:   deps.Logger,
	}, nil
}

func (g *templateGenerator) Generate() (string, error) {
	replacements := []string{
		"{timestamp}", time.Now().Format("2006-01-02 15:04:05"),
	}

	for _, key := range g.fields.Keys() {
		raw, _ := g.fields.Get(key)
		spec := fmt.Sprintf("%v", raw)
		value, err := g.registry.Resolve(spec)
		if err != nil {
			g.logger.Warn("field resolution failed, keeping literal",
				"pattern", g.name,
				"field", key,
				"error", err,
			)
			metrics.IncProviderFallback()
			value = spec
		}
		replacements = append(replacements, "{"+key+"}", value)
	}

	line := strings.NewReplacer(replacements...).Replace(g.format)

	metrics.IncRecordGenerated(g.name, pattern.TypeTemplate)
	return line, nil
}
