// SPDX-License-Identifier: Apache-2.0

package winevent

import (
	"strconv"
	"strings"
)

// Well-known Windows security event IDs covered by the generator.
const (
	LogonSuccess   = 4624
	LogonFailed    = 4625
	AccountCreated = 4720
	AccountEnabled = 4722
	PasswordChange = 4723
	UserDeleted    = 4726
	AccountLocked  = 4740
)

var securityEventIDs = map[int]string{
	LogonSuccess:   "LOGON_SUCCESS",
	LogonFailed:    "LOGON_FAILED",
	AccountCreated: "ACCOUNT_CREATED",
	AccountEnabled: "ACCOUNT_ENABLED",
	PasswordChange: "PASSWORD_CHANGE",
	UserDeleted:    "USER_DELETED",
	AccountLocked:  "ACCOUNT_LOCKED",
}

// SecurityTemplate declares what a given security record type must
// carry: the legacy message format with %N placeholders, the ordered
// required EventData field names, and each field's declared type.
type SecurityTemplate struct {
	Message        string
	RequiredFields []string
	FieldTypes     map[string]string
}

// securityTemplates is the per-record-type catalog, populated at
// startup and read-only afterwards. Record types listed in
// securityEventIDs but absent here are configuration defects when
// encountered, not user errors.
var securityTemplates = map[int]SecurityTemplate{
	LogonSuccess: {
		Message: "An account was successfully logged on.\n" +
			"Subject:\n" +
			"\tSecurity ID:\t\t%1\n" +
			"\tAccount Name:\t\t%2\n" +
			"\tAccount Domain:\t\t%3\n" +
			"\tLogon ID:\t\t%4\n" +
			"Logon Information:\n" +
			"\tLogon Type:\t\t%5\n" +
			"\tRestricted Admin Mode:\t%6\n" +
			"\tVirtual Account:\t\t%7\n" +
			"\tElevated Token:\t\t%8\n",
		RequiredFields: []string{
			"SubjectUserSid",
			"SubjectUserName",
			"SubjectDomainName",
			"SubjectLogonId",
			"LogonType",
			"RestrictedAdminMode",
			"VirtualAccount",
			"ElevatedToken",
		},
		FieldTypes: map[string]string{
			"SubjectUserSid":      TypeSID,
			"SubjectUserName":     TypeUnicodeString,
			"SubjectDomainName":   TypeUnicodeString,
			"SubjectLogonId":      TypeHexInt64,
			"LogonType":           TypeUInt32,
			"RestrictedAdminMode": TypeBoolean,
			"VirtualAccount":      TypeBoolean,
			"ElevatedToken":       TypeBoolean,
		},
	},
}

// IsSecurityEventID reports whether id belongs to the closed catalog
// of security record types the validator knows about.
func IsSecurityEventID(id int) bool {
	_, ok := securityEventIDs[id]
	return ok
}

// SecurityTemplateFor returns the catalog entry for id if one exists.
func SecurityTemplateFor(id int) (SecurityTemplate, bool) {
	t, ok := securityTemplates[id]
	return t, ok
}

// ValidateSecurityEvent enforces the per-record-type template for a
// cataloged security event ID: every required EventData field must be
// present, and every present field with a declared type must carry it.
func ValidateSecurityEvent(id int, eventData *Map) error {
	if !IsSecurityEventID(id) {
		return securityErrorf("Unknown Security Event ID: %d", id)
	}

	template, ok := securityTemplates[id]
	if !ok {
		return securityErrorf("No template defined for Security Event ID: %d", id)
	}

	if eventData == nil || !eventData.Has("Data") {
		return securityErrorf("EventData must contain Data array")
	}
	rawData, _ := eventData.Get("Data")
	entries, ok := rawData.([]any)
	if !ok {
		return securityErrorf("EventData.Data must be a list")
	}

	byName := make(map[string]*Map, len(entries))
	order := make([]string, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(*Map)
		if !ok {
			return securityErrorf("Each Data element must be a mapping")
		}
		name, ok := entry.Get("Name")
		if !ok {
			return securityErrorf("Each Data element must have a Name")
		}
		key := stringValue(name)
		if _, seen := byName[key]; !seen {
			order = append(order, key)
		}
		byName[key] = entry
	}

	var missing []string
	for _, field := range template.RequiredFields {
		if _, ok := byName[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return securityErrorf(
			"Missing required fields for Security Event %d: %s", id, strings.Join(missing, ", "))
	}

	for _, name := range order {
		expected, ok := template.FieldTypes[name]
		if !ok {
			continue
		}
		actual, _ := byName[name].Get("Type")
		if stringValue(actual) != expected {
			return securityErrorf(
				"Invalid type for field %s. Expected %s, got %v", name, expected, actual)
		}
	}

	if id == LogonSuccess {
		return validateLogonEvent(byName)
	}

	return nil
}

// validateLogonEvent applies the 4624-specific checks: LogonType must
// be one of the defined logon type codes and the boolean fields must
// use the accepted lexicon. Fields still holding a dynamic value
// specification are skipped; they are resolved at serialization time.
func validateLogonEvent(fields map[string]*Map) error {
	if entry, ok := fields["LogonType"]; ok {
		text := entryText(entry)
		if !isDynamicSpec(text) {
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil {
				return securityErrorf("Invalid LogonType: %s", text)
			}
			if _, ok := LogonTypes[n]; !ok {
				return securityErrorf("Invalid LogonType: %d", n)
			}
		}
	}

	for _, field := range []string{"RestrictedAdminMode", "VirtualAccount", "ElevatedToken"} {
		entry, ok := fields[field]
		if !ok {
			continue
		}
		text := entryText(entry)
		if isDynamicSpec(text) {
			continue
		}
		if !isBooleanText(text) {
			return securityErrorf("Invalid boolean value for %s: %s", field, text)
		}
	}

	return nil
}

func entryText(entry *Map) string {
	v, _ := entry.Get("_text")
	return stringValue(v)
}

// isBooleanText reports whether text belongs to the accepted boolean
// lexicon, case-insensitively.
func isBooleanText(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "no", "true", "false", "0", "1":
		return true
	default:
		return false
	}
}

// FormatMessage substitutes %1..%N placeholders in a template message
// with the given values, in order.
func FormatMessage(message string, values []string) string {
	for i, value := range values {
		message = strings.ReplaceAll(message, "%"+strconv.Itoa(i+1), value)
	}
	return message
}

// ValidateMessageFormat checks that a message does not reference more
// %N parameters than there are values to fill them.
func ValidateMessageFormat(message string, values []any) error {
	paramCount := 0
	for i := 1; i <= len(values)+1; i++ {
		if strings.Contains(message, "%"+strconv.Itoa(i)) {
			paramCount++
		}
	}
	if paramCount > len(values) {
		return schemaErrorf(
			"Message contains %d parameters but only %d values provided", paramCount, len(values))
	}
	return nil
}
