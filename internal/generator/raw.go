// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"math/rand/v2"

	"github.com/rloggen/rloggen/internal/metrics"
	"github.com/rloggen/rloggen/internal/pattern"
)

// rawGenerator emits one of the pattern's example lines verbatim.
type rawGenerator struct {
	name     string
	examples []string
}

func newRawGenerator(p *pattern.Pattern, _ Deps) (Generator, error) {
	return &rawGenerator{name: p.Name, examples: p.Examples}, nil
}

func (g *rawGenerator) Generate() (string, error) {
	line := g.examples[rand.IntN(len(g.examples))]
	metrics.IncRecordGenerated(g.name, pattern.TypeRaw)
	return line, nil
}
