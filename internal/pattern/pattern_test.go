// SPDX-License-Identifier: Apache-2.0

package pattern

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rloggen/rloggen/internal/winevent"
)

const windowsEventDoc = `name: security_logon
generator: windows_event
rate: 2
event_descriptor:
  Id: 4624
  Version: 0
  Channel: 2
  Level: 0
  Opcode: 0
  Task: 12544
  Keyword: "0x8020000000000000"
template:
  message: "An account was successfully logged on. %1"
  values:
    - func_sid
Event:
  System:
    Provider:
      Name: Microsoft-Windows-Security-Auditing
      Guid: "{54849625-5478-4994-A5BA-3E3B0328C30D}"
    EventID:
      _text: "4624"
      Qualifiers: "0"
    Channel: Security
    Computer: func_hostname
  EventData:
    Data:
      - Name: SubjectUserSid
        Type: win:SID
        _text: func_sid
`

const templateDoc = `name: syslog_line
generator: template
format: "{timestamp} {host} sshd[{pid}]: Accepted password"
fields:
  host: func_hostname
  pid: func_randint 100 65535
`

const rawDoc = `name: canned_lines
generator: raw
enabled: false
examples:
  - "line one"
  - "line two"
`

func TestParseWindowsEvent(t *testing.T) {
	p, err := Parse([]byte(windowsEventDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "security_logon" {
		t.Fatalf("unexpected name %q", p.Name)
	}
	if p.Generator != TypeWindowsEvent {
		t.Fatalf("unexpected generator %q", p.Generator)
	}
	if !p.Enabled {
		t.Fatal("expected enabled by default")
	}
	if p.Rate != 2 {
		t.Fatalf("expected rate 2, got %d", p.Rate)
	}
	if !p.Config.Has("event_descriptor") || !p.Config.Has("Event") {
		t.Fatal("expected full document in Config")
	}
}

func TestParsePreservesMappingOrder(t *testing.T) {
	p, err := Parse([]byte(windowsEventDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rawEvent, _ := p.Config.Get("Event")
	event, ok := rawEvent.(*winevent.Map)
	if !ok {
		t.Fatalf("expected Event to be a mapping, got %T", rawEvent)
	}
	rawSystem, _ := event.Get("System")
	system, ok := rawSystem.(*winevent.Map)
	if !ok {
		t.Fatalf("expected System to be a mapping, got %T", rawSystem)
	}
	want := []string{"Provider", "EventID", "Channel", "Computer"}
	if got := system.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected System order %v, got %v", want, got)
	}
}

func TestParseTemplate(t *testing.T) {
	p, err := Parse([]byte(templateDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Generator != TypeTemplate {
		t.Fatalf("unexpected generator %q", p.Generator)
	}
	if !strings.Contains(p.Format, "{timestamp}") {
		t.Fatalf("unexpected format %q", p.Format)
	}
	if v, _ := p.Fields.Get("host"); v != "func_hostname" {
		t.Fatalf("unexpected host field %v", v)
	}
	if p.Rate != 1 {
		t.Fatalf("expected default rate 1, got %d", p.Rate)
	}
}

func TestParseRaw(t *testing.T) {
	p, err := Parse([]byte(rawDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Enabled {
		t.Fatal("expected disabled pattern")
	}
	if !reflect.DeepEqual(p.Examples, []string{"line one", "line two"}) {
		t.Fatalf("unexpected examples %v", p.Examples)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		doc      string
		fragment string
	}{
		{"generator: raw\nexamples: [x]\n", "missing a name"},
		{"name: p\n", "missing generator type"},
		{"name: p\ngenerator: nope\n", "unknown generator type"},
		{"name: p\ngenerator: raw\nexamples: [x]\nrate: 0\n", "rate must be a positive integer"},
		{"name: p\ngenerator: raw\nexamples: [x]\nenabled: yes please\n", "enabled must be a boolean"},
		{"name: p\ngenerator: template\n", "template generator requires a format"},
		{"name: p\ngenerator: raw\n", "raw generator requires examples"},
		{"name: p\ngenerator: template\nformat: f\nfields: notamap\n", "fields must be a mapping"},
		{"- just\n- a\n- list\n", "must be a mapping"},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.doc))
		if err == nil {
			t.Fatalf("expected error containing %q for doc:\n%s", c.fragment, c.doc)
		}
		if !strings.Contains(err.Error(), c.fragment) {
			t.Fatalf("expected %q in error, got %q", c.fragment, err.Error())
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("20_raw.yml", rawDoc)
	write("10_template.yaml", templateDoc)
	write("ignore.txt", "not a pattern")

	patterns, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	// Load order is sorted by filename.
	if patterns[0].Name != "syslog_line" || patterns[1].Name != "canned_lines" {
		t.Fatalf("unexpected order: %s, %s", patterns[0].Name, patterns[1].Name)
	}
}

func TestLoadDirBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("name: p\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "bad.yml") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.yml")
	if err := os.WriteFile(path, []byte(rawDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if got := store.List(); len(got) != 0 {
		t.Fatalf("expected empty store before first reload, got %d", len(got))
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := store.List(); len(got) != 1 || got[0].Name != "canned_lines" {
		t.Fatalf("unexpected store contents: %v", got)
	}

	// A failed reload keeps the previous set.
	if err := os.WriteFile(path, []byte("name: broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload failure")
	}
	if got := store.List(); len(got) != 1 || got[0].Name != "canned_lines" {
		t.Fatalf("expected previous set to survive, got %v", got)
	}
}
