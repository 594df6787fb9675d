// SPDX-License-Identifier: Apache-2.0

package winevent

import (
	"regexp"
	"strings"

	"github.com/rloggen/rloggen/internal/provider"
)

var (
	guidPattern     = regexp.MustCompile(`^\{[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\}$`)
	hexInt64Pattern = regexp.MustCompile(`^0[xX][0-9A-Fa-f]{1,16}$`)
	culturePattern  = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)
)

// userDataMaxDepth bounds the recursive UserData walk so malformed
// input cannot blow the stack.
const userDataMaxDepth = 32

// ValidGUID reports whether s is a canonical GUID: 8-4-4-4-12 hex
// digit groups wrapped in braces.
func ValidGUID(s string) bool {
	return guidPattern.MatchString(s)
}

// ValidHexInt64 reports whether s is a 0x-prefixed hex literal of 1 to
// 16 digits.
func ValidHexInt64(s string) bool {
	return hexInt64Pattern.MatchString(s)
}

func isDynamicSpec(s string) bool {
	return provider.IsInvocation(s)
}

// ValidateConfig validates a complete record configuration. The check
// order is fixed and depth-first, left to right, so error ordering is
// reproducible: top-level keys, template shape, System subtree,
// descriptor, channel cross-check, security template, RenderingInfo,
// EventData, UserData, DebugData.
func ValidateConfig(cfg *Map) error {
	if cfg == nil {
		return schemaErrorf("Configuration must be a mapping")
	}

	var missing []string
	for _, f := range []string{"event_descriptor", "template", "Event"} {
		if !cfg.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return schemaErrorf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	if err := validateTemplate(cfg.childMap("template")); err != nil {
		return err
	}

	event := cfg.childMap("Event")
	if event == nil {
		return schemaErrorf("Event must be a mapping")
	}
	system := event.childMap("System")
	if !event.Has("System") || system == nil {
		return schemaErrorf("Missing System element in Event")
	}

	if err := validateSystemProperties(system); err != nil {
		return err
	}

	descriptor := cfg.childMap("event_descriptor")
	desc, err := ValidateDescriptor(descriptor)
	if err != nil {
		return err
	}

	// Standard-channel cross-check: a named standard channel in System
	// pins the descriptor's numeric channel.
	if rawChannel, ok := system.Get("Channel"); ok {
		name := stringValue(rawChannel)
		if id, ok := StandardChannels[name]; ok && desc.Channel != id {
			return schemaErrorf("Channel ID mismatch for %s", name)
		}
	}

	if IsSecurityEventID(desc.Id) {
		eventData := event.childMap("EventData")
		if !event.Has("EventData") || eventData == nil {
			return schemaErrorf("Security Event %d requires EventData", desc.Id)
		}
		if err := ValidateSecurityEvent(desc.Id, eventData); err != nil {
			return err
		}
	}

	if event.Has("RenderingInfo") {
		if err := validateRenderingInfo(event.childMap("RenderingInfo")); err != nil {
			return err
		}
	}

	if event.Has("EventData") {
		if err := validateEventData(event.childMap("EventData")); err != nil {
			return err
		}
	}

	if event.Has("UserData") {
		if err := validateUserData(event.childMap("UserData"), 0); err != nil {
			return err
		}
	}

	if event.Has("DebugData") {
		if err := validateDebugData(event.childMap("DebugData")); err != nil {
			return err
		}
	}

	return nil
}

func validateTemplate(template *Map) error {
	if template == nil {
		return schemaErrorf("Template must be a mapping")
	}
	if !template.Has("message") || !template.Has("values") {
		return schemaErrorf("Template must contain message and values")
	}
	message, _ := template.Get("message")
	rawValues, _ := template.Get("values")
	values, ok := rawValues.([]any)
	if !ok {
		return schemaErrorf("Template values must be a list")
	}
	return ValidateMessageFormat(stringValue(message), values)
}

func validateSystemProperties(system *Map) error {
	var missing []string
	for _, f := range []string{"Provider", "EventID", "Computer"} {
		if !system.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return schemaErrorf("Missing required System elements: %s", strings.Join(missing, ", "))
	}

	if err := validateProvider(system.childMap("Provider")); err != nil {
		return err
	}

	if err := validateEventID(system); err != nil {
		return err
	}

	if system.Has("Correlation") {
		if err := validateCorrelation(system.childMap("Correlation")); err != nil {
			return err
		}
	}

	if system.Has("Execution") {
		if err := validateExecution(system.childMap("Execution")); err != nil {
			return err
		}
	}

	if raw, ok := system.Get("Keywords"); ok {
		keywords := stringValue(raw)
		if !ValidHexInt64(keywords) {
			return schemaErrorf("Invalid Keywords format: %s", keywords)
		}
	}

	if raw, ok := system.Get("Version"); ok {
		version, err := intValue(raw)
		if err != nil {
			return schemaErrorf("Invalid Version: %v", raw)
		}
		if version < 0 || version > 255 {
			return schemaErrorf("Version must be between 0 and 255, got %d", version)
		}
	}

	if raw, ok := system.Get("Level"); ok {
		level, err := intValue(raw)
		if err != nil {
			return schemaErrorf("Invalid Level: %v", raw)
		}
		if level < 0 || level > 15 {
			return schemaErrorf("Level must be between 0 and 15, got %d", level)
		}
	}

	return nil
}

// validateProvider requires a Name or a Guid, and any Guid must be in
// canonical form.
func validateProvider(p *Map) error {
	if p == nil {
		return schemaErrorf("Provider must be a mapping")
	}
	name, _ := p.Get("Name")
	guid, hasGUID := p.Get("Guid")
	if stringValue(name) == "" && (!hasGUID || stringValue(guid) == "") {
		return schemaErrorf("Provider must have either Name or Guid attribute")
	}
	if hasGUID && stringValue(guid) != "" && !ValidGUID(stringValue(guid)) {
		return schemaErrorf("Invalid Provider GUID format: %s", stringValue(guid))
	}
	return nil
}

// validateEventID accepts a scalar ID or a mapping carrying _text and
// an optional non-negative Qualifiers attribute.
func validateEventID(system *Map) error {
	raw, _ := system.Get("EventID")

	var id int64
	if m, ok := raw.(*Map); ok {
		text, ok := m.Get("_text")
		if !ok {
			return schemaErrorf("EventID mapping must have '_text' field")
		}
		parsed, err := intValue(text)
		if err != nil {
			return schemaErrorf("Invalid EventID: %v", text)
		}
		id = parsed

		if q, ok := m.Get("Qualifiers"); ok {
			qualifiers, err := intValue(q)
			if err != nil {
				return schemaErrorf("Invalid EventID Qualifiers: %v", q)
			}
			if qualifiers < 0 {
				return schemaErrorf("EventID Qualifiers must be non-negative, got %d", qualifiers)
			}
		}
	} else {
		parsed, err := intValue(raw)
		if err != nil {
			return schemaErrorf("Invalid EventID: %v", raw)
		}
		id = parsed
	}

	if id < 0 {
		return schemaErrorf("EventID must be non-negative, got %d", id)
	}
	return nil
}

func validateCorrelation(correlation *Map) error {
	if correlation == nil {
		return schemaErrorf("Correlation must be a mapping")
	}
	for _, field := range []string{"ActivityID", "RelatedActivityID"} {
		raw, ok := correlation.Get(field)
		if !ok {
			continue
		}
		guid := stringValue(raw)
		if guid != "" && !ValidGUID(guid) {
			return schemaErrorf("Invalid %s GUID format: %s", field, guid)
		}
	}
	return nil
}

func validateExecution(execution *Map) error {
	if execution == nil {
		return schemaErrorf("Execution must be a mapping")
	}

	var missing []string
	for _, f := range []string{"ProcessID", "ThreadID"} {
		if !execution.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return schemaErrorf("Missing required Execution attributes: %s", strings.Join(missing, ", "))
	}

	for _, field := range []string{"ProcessID", "ThreadID", "SessionID"} {
		raw, ok := execution.Get(field)
		if !ok {
			continue
		}
		value, err := intValue(raw)
		if err != nil {
			return schemaErrorf("Invalid %s value: %v", field, raw)
		}
		if value < 0 {
			return schemaErrorf("%s must be non-negative, got %d", field, value)
		}
	}
	return nil
}

func validateRenderingInfo(rendering *Map) error {
	if rendering == nil {
		return schemaErrorf("RenderingInfo must be a mapping")
	}
	raw, ok := rendering.Get("Culture")
	if !ok {
		return schemaErrorf("RenderingInfo must have Culture attribute")
	}
	culture := stringValue(raw)
	if !culturePattern.MatchString(culture) {
		return schemaErrorf("Invalid Culture format: %s. Expected format: 'en-US'", culture)
	}

	if rawKeywords, ok := rendering.Get("Keywords"); ok {
		keywords, isMap := rawKeywords.(*Map)
		if !isMap || !keywords.Has("Keyword") {
			return schemaErrorf("Keywords in RenderingInfo must contain Keyword elements")
		}
		rawList, _ := keywords.Get("Keyword")
		list, isList := rawList.([]any)
		if !isList {
			return schemaErrorf("Keywords.Keyword must be a list")
		}
		if len(list) > 64 {
			return schemaErrorf("Maximum 64 Keywords allowed in RenderingInfo")
		}
	}
	return nil
}

// validateEventData checks the Data sequence: every entry is a mapping
// carrying a Name, and entries declared win:Boolean must resolve to
// the boolean lexicon or still hold an unresolved dynamic spec.
func validateEventData(eventData *Map) error {
	if eventData == nil {
		return schemaErrorf("EventData must be a mapping")
	}
	rawData, ok := eventData.Get("Data")
	if !ok {
		return nil
	}
	entries, isList := rawData.([]any)
	if !isList {
		return schemaErrorf("EventData.Data must be a list")
	}

	for _, raw := range entries {
		entry, isMap := raw.(*Map)
		if !isMap {
			return schemaErrorf("Each Data element must be a mapping")
		}
		rawName, ok := entry.Get("Name")
		if !ok {
			return schemaErrorf("Each Data element must have a Name")
		}
		if declaredType, _ := entry.Get("Type"); stringValue(declaredType) == TypeBoolean {
			rawText, _ := entry.Get("_text")
			text := stringValue(rawText)
			if !isDynamicSpec(text) && !isBooleanText(text) {
				return schemaErrorf("Invalid boolean value for %s: %s", stringValue(rawName), text)
			}
		}
	}
	return nil
}

// validateUserData walks an arbitrarily nested mapping of string keys.
// There is no further structural constraint: UserData is a deliberate
// extension point. Depth is bounded to guard against malformed input.
func validateUserData(userData *Map, depth int) error {
	if userData == nil {
		return schemaErrorf("UserData must be a mapping")
	}
	if depth >= userDataMaxDepth {
		return schemaErrorf("UserData nesting exceeds maximum depth of %d", userDataMaxDepth)
	}
	for _, key := range userData.Keys() {
		value, _ := userData.Get(key)
		if nested, ok := value.(*Map); ok {
			if err := validateUserData(nested, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateDebugData checks the WPP debug payload: Component and
// Message are required, SequenceNumber must be non-negative when set.
func validateDebugData(debugData *Map) error {
	if debugData == nil {
		return schemaErrorf("DebugData must be a mapping")
	}
	var missing []string
	for _, f := range []string{"Component", "Message"} {
		if !debugData.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return schemaErrorf("Missing required DebugData elements: %s", strings.Join(missing, ", "))
	}

	if raw, ok := debugData.Get("SequenceNumber"); ok {
		seq, err := intValue(raw)
		if err != nil {
			return schemaErrorf("Invalid SequenceNumber: %v", raw)
		}
		if seq < 0 {
			return schemaErrorf("SequenceNumber must be non-negative, got %d", seq)
		}
	}
	return nil
}
