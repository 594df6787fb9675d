// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"errors"
	"time"

	"github.com/rloggen/rloggen/internal/metrics"
	"github.com/rloggen/rloggen/internal/pattern"
	"github.com/rloggen/rloggen/internal/winevent"
)

// windowsEventGenerator validates the pattern's record configuration
// and serializes it into the vendor markup. Validation runs on every
// call: dynamic values are resolved at serialization time, but the
// structural checks are deterministic, so a config that validated once
// keeps validating.
type windowsEventGenerator struct {
	name     string
	cfg      *winevent.Map
	renderer *winevent.Renderer
}

func newWindowsEventGenerator(p *pattern.Pattern, deps Deps) (Generator, error) {
	gen := &windowsEventGenerator{
		name:     p.Name,
		cfg:      p.Config,
		renderer: winevent.NewRenderer(countingResolver{registry: deps.Registry}, deps.Logger),
	}

	// Surface config defects at build time rather than on the first
	// tick of the worker loop.
	if err := winevent.ValidateConfig(gen.cfg); err != nil {
		return nil, err
	}
	return gen, nil
}

func (g *windowsEventGenerator) Generate() (string, error) {
	started := time.Now()

	if err := winevent.ValidateConfig(g.cfg); err != nil {
		metrics.IncValidationFailure(validationKind(err))
		return "", err
	}

	out := g.renderer.Render(g.cfg)

	metrics.ObserveGenerationDuration(time.Since(started))
	metrics.IncRecordGenerated(g.name, pattern.TypeWindowsEvent)
	return out, nil
}

func validationKind(err error) string {
	var verr *winevent.ValidationError
	if errors.As(err, &verr) {
		return string(verr.Kind)
	}
	return "generator"
}
