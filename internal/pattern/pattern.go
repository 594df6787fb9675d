// SPDX-License-Identifier: Apache-2.0

// Package pattern loads the declarative YAML documents that describe
// what to generate. Mapping order in the document is preserved into
// the core's ordered Map, because serialization must reproduce it.
package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/rloggen/rloggen/internal/winevent"
)

// Generator types a pattern can select.
const (
	TypeTemplate     = "template"
	TypeRaw          = "raw"
	TypeWindowsEvent = "windows_event"
)

// Pattern is one loaded generation pattern.
type Pattern struct {
	Name      string
	Enabled   bool
	Generator string
	Rate      int

	// Template generator inputs.
	Format string
	Fields *winevent.Map

	// Raw generator inputs.
	Examples []string

	// Full document; the windows_event generator validates and
	// renders from this (event_descriptor, template, Event).
	Config *winevent.Map
}

// Parse decodes a single pattern document.
func Parse(data []byte) (*Pattern, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("decode pattern: %w", err)
	}

	cfg, ok := toOrdered(doc).(*winevent.Map)
	if !ok {
		return nil, fmt.Errorf("pattern document must be a mapping")
	}

	p := &Pattern{
		Enabled: true,
		Rate:    1,
		Config:  cfg,
	}

	rawName, ok := cfg.Get("name")
	if !ok {
		return nil, fmt.Errorf("pattern is missing a name")
	}
	p.Name = fmt.Sprintf("%v", rawName)

	if raw, ok := cfg.Get("enabled"); ok {
		enabled, isBool := raw.(bool)
		if !isBool {
			return nil, fmt.Errorf("pattern %s: enabled must be a boolean", p.Name)
		}
		p.Enabled = enabled
	}

	rawGen, ok := cfg.Get("generator")
	if !ok {
		return nil, fmt.Errorf("pattern %s: missing generator type", p.Name)
	}
	p.Generator = fmt.Sprintf("%v", rawGen)
	switch p.Generator {
	case TypeTemplate, TypeRaw, TypeWindowsEvent:
	default:
		return nil, fmt.Errorf("pattern %s: unknown generator type %q", p.Name, p.Generator)
	}

	if raw, ok := cfg.Get("rate"); ok {
		rate, err := toInt(raw)
		if err != nil || rate < 1 {
			return nil, fmt.Errorf("pattern %s: rate must be a positive integer", p.Name)
		}
		p.Rate = rate
	}

	if raw, ok := cfg.Get("format"); ok {
		p.Format = fmt.Sprintf("%v", raw)
	}
	if raw, ok := cfg.Get("fields"); ok {
		fields, isMap := raw.(*winevent.Map)
		if !isMap {
			return nil, fmt.Errorf("pattern %s: fields must be a mapping", p.Name)
		}
		p.Fields = fields
	}
	if raw, ok := cfg.Get("examples"); ok {
		list, isList := raw.([]any)
		if !isList {
			return nil, fmt.Errorf("pattern %s: examples must be a list", p.Name)
		}
		for _, item := range list {
			p.Examples = append(p.Examples, fmt.Sprintf("%v", item))
		}
	}

	switch p.Generator {
	case TypeTemplate:
		if p.Format == "" {
			return nil, fmt.Errorf("pattern %s: template generator requires a format", p.Name)
		}
	case TypeRaw:
		if len(p.Examples) == 0 {
			return nil, fmt.Errorf("pattern %s: raw generator requires examples", p.Name)
		}
	}

	return p, nil
}

// Load reads and parses one pattern file.
func Load(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// LoadDir loads every *.yml / *.yaml file in dir, sorted by filename
// so load order is stable. Disabled patterns are returned too; callers
// decide whether to skip them.
func LoadDir(dir string) ([]*Pattern, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pattern dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	patterns := make([]*Pattern, 0, len(files))
	for _, name := range files {
		p, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// toOrdered converts the decoder's ordered representation
// (yaml.MapSlice) into the core's Map, recursively.
func toOrdered(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := winevent.NewMap()
		for _, item := range t {
			m.Set(fmt.Sprintf("%v", item.Key), toOrdered(item.Value))
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toOrdered(item)
		}
		return out
	default:
		return v
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
}
