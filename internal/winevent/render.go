// SPDX-License-Identifier: Apache-2.0

package winevent

import (
	"fmt"
	"log/slog"
	"strings"
)

// EventNamespace is the schema namespace the Event root is emitted
// under.
const EventNamespace = "http://schemas.microsoft.com/win/2004/08/events/event"

// Resolver turns a field value specification into a concrete value.
type Resolver interface {
	Resolve(spec string) (string, error)
}

// Renderer serializes a validated record configuration into canonical
// markup text. It assumes pre-validated input and has no failure path:
// value-resolution errors degrade to the literal spec text with a
// warning, so one unresolvable field never aborts a record.
//
// No markup escaping is applied to emitted text; values containing
// markup-significant characters are substituted literally. This is a
// known limitation kept for byte-exact compatibility with existing
// golden outputs.
type Renderer struct {
	resolver Resolver
	logger   *slog.Logger
}

func NewRenderer(resolver Resolver, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{resolver: resolver, logger: logger}
}

// Render emits the declaration line and the Event element tree. System
// fields whose value is a mapping contribute their non-_text keys as
// attributes (each resolved through the value provider) and _text as
// resolved element text; scalar fields become resolved element text.
// EventData attributes are taken literally, not resolved; only _text
// is resolved. The asymmetry is intentional and preserved. Emission
// order follows the source mapping order end to end.
func (r *Renderer) Render(cfg *Map) string {
	lines := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		fmt.Sprintf(`<Event xmlns="%s">`, EventNamespace),
	}

	event := cfg.childMap("Event")

	lines = append(lines, "  <System>")
	if system := event.childMap("System"); system != nil {
		for _, key := range system.Keys() {
			value, _ := system.Get(key)
			lines = append(lines, r.renderSystemField(key, value))
		}
	}
	lines = append(lines, "  </System>")

	if eventData := event.childMap("EventData"); eventData != nil {
		lines = append(lines, "  <EventData>")
		if rawData, ok := eventData.Get("Data"); ok {
			entries, _ := rawData.([]any)
			for _, raw := range entries {
				entry, ok := raw.(*Map)
				if !ok {
					continue
				}
				lines = append(lines, r.renderDataEntry(entry))
			}
		}
		lines = append(lines, "  </EventData>")
	}

	lines = append(lines, "</Event>")
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderSystemField(key string, value any) string {
	child, isMap := value.(*Map)
	if !isMap {
		return fmt.Sprintf("    <%s>%s</%s>", key, r.resolve(stringValue(value)), key)
	}

	var attrs []string
	text := ""
	for _, k := range child.Keys() {
		v, _ := child.Get(k)
		if k == "_text" {
			text = r.resolve(stringValue(v))
			continue
		}
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, r.resolve(stringValue(v))))
	}

	if len(attrs) > 0 {
		return fmt.Sprintf("    <%s %s>%s</%s>", key, strings.Join(attrs, " "), text, key)
	}
	return fmt.Sprintf("    <%s>%s</%s>", key, text, key)
}

// renderDataEntry emits one Data element. Attribute values are emitted
// literally here, unlike System attributes.
func (r *Renderer) renderDataEntry(entry *Map) string {
	var attrs []string
	text := ""
	for _, k := range entry.Keys() {
		v, _ := entry.Get(k)
		if k == "_text" {
			text = r.resolve(stringValue(v))
			continue
		}
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, stringValue(v)))
	}

	if len(attrs) > 0 {
		return fmt.Sprintf("    <Data %s>%s</Data>", strings.Join(attrs, " "), text)
	}
	return fmt.Sprintf("    <Data>%s</Data>", text)
}

func (r *Renderer) resolve(spec string) string {
	if r.resolver == nil {
		return spec
	}
	value, err := r.resolver.Resolve(spec)
	if err != nil {
		r.logger.Warn("value resolution failed, keeping literal", "spec", spec, "error", err)
		return spec
	}
	return value
}
