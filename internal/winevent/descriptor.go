// SPDX-License-Identifier: Apache-2.0

package winevent

import (
	"strconv"
	"strings"
)

// EventDescriptor is the fixed numeric header identifying an event's
// type, severity, and classification (MS-DTYP 2.3.1 layout).
type EventDescriptor struct {
	Id      int
	Version int
	Channel int
	Level   int
	Opcode  int
	Task    int
	Keyword uint64
}

var descriptorFields = []string{"Id", "Version", "Channel", "Level", "Opcode", "Task", "Keyword"}

// ValidateDescriptor checks the raw descriptor mapping and returns the
// typed EventDescriptor. All seven fields are required and the full
// missing set is reported at once. On any violation no partial
// descriptor is returned.
func ValidateDescriptor(raw *Map) (EventDescriptor, error) {
	if raw == nil {
		return EventDescriptor{}, descriptorErrorf("EventDescriptor must be a mapping")
	}

	var missing []string
	for _, f := range descriptorFields {
		if !raw.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return EventDescriptor{}, descriptorErrorf(
			"Missing required fields in EventDescriptor: %s", strings.Join(missing, ", "))
	}

	var desc EventDescriptor
	for _, f := range descriptorFields[:6] {
		v, _ := raw.Get(f)
		n, err := intValue(v)
		if err != nil {
			return EventDescriptor{}, descriptorErrorf("Invalid value in EventDescriptor: %s: %v", f, err)
		}
		switch f {
		case "Id":
			desc.Id = int(n)
		case "Version":
			desc.Version = int(n)
		case "Channel":
			desc.Channel = int(n)
		case "Level":
			desc.Level = int(n)
		case "Opcode":
			desc.Opcode = int(n)
		case "Task":
			desc.Task = int(n)
		}
	}

	rawKeyword, _ := raw.Get("Keyword")
	keyword, err := parseKeyword(rawKeyword)
	if err != nil {
		return EventDescriptor{}, descriptorErrorf("Invalid value in EventDescriptor: Keyword: %v", err)
	}
	desc.Keyword = keyword

	if desc.Level < 0 || desc.Level > 15 {
		return EventDescriptor{}, descriptorErrorf("Level must be between 0 and 15, got %d", desc.Level)
	}
	if desc.Opcode < 0 || desc.Opcode > 240 {
		return EventDescriptor{}, descriptorErrorf("Opcode must be between 0 and 240, got %d", desc.Opcode)
	}
	if desc.Task < 0 {
		return EventDescriptor{}, descriptorErrorf("Task must be non-negative, got %d", desc.Task)
	}

	return desc, nil
}

// parseKeyword accepts a numeric keyword as a decimal value, or a
// textual keyword as a hex literal with an optional 0x/0X prefix.
func parseKeyword(v any) (uint64, error) {
	switch s := v.(type) {
	case string:
		trimmed := strings.TrimSpace(s)
		trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
		return strconv.ParseUint(trimmed, 16, 64)
	case uint64:
		return s, nil
	}
	n, err := intValue(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return uint64(n), nil
}
