// SPDX-License-Identifier: Apache-2.0

package winevent

// Static catalogs mirroring the Windows event-log schema. All of these
// are populated at init and never mutated, so concurrent reads from
// parallel generation calls are safe.

// StandardChannels maps the well-known channel names to their numeric
// channel IDs. A record whose System.Channel names one of these must
// carry the matching descriptor Channel value.
var StandardChannels = map[string]int{
	"Application":     1,
	"Security":        2,
	"System":          3,
	"Setup":           4,
	"ForwardedEvents": 5,
}

// LevelNames maps the defined severity levels to their display names.
var LevelNames = map[int]string{
	0: "LogAlways",
	1: "Critical",
	2: "Error",
	3: "Warning",
	4: "Informational",
	5: "Verbose",
}

// LogonTypes maps the Windows security logon type codes to their
// names. Note there is no logon type 1.
var LogonTypes = map[int]string{
	0:  "System",
	2:  "Interactive",
	3:  "Network",
	4:  "Batch",
	5:  "Service",
	6:  "Proxy",
	7:  "Unlock",
	8:  "NetworkClearText",
	9:  "NewCredentials",
	10: "RemoteInteractive",
	11: "CachedInteractive",
}

// Declared field-type vocabulary for EventData entries. The set is
// open-ended; these are the tags the security templates use today.
const (
	TypeBoolean       = "win:Boolean"
	TypeSID           = "win:SID"
	TypeUnicodeString = "win:UnicodeString"
	TypeHexInt64      = "win:HexInt64"
	TypeUInt32        = "win:UInt32"
)
