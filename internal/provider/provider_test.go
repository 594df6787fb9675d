// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestResolveLiteralPassthrough(t *testing.T) {
	r := NewRegistry()
	for _, lit := range []string{"TestComputer", "4624", "", "function but no marker"} {
		got, err := r.Resolve(lit)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", lit, err)
		}
		if got != lit {
			t.Fatalf("Resolve(%q): expected literal passthrough, got %q", lit, got)
		}
	}
}

func TestResolveUnknownGenerator(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("func_nope")
	if err == nil {
		t.Fatal("expected error for unknown generator")
	}
	var ugErr *UnknownGeneratorError
	if !errors.As(err, &ugErr) {
		t.Fatalf("expected *UnknownGeneratorError, got %T", err)
	}
	if ugErr.Name != "func_nope" {
		t.Fatalf("expected name func_nope, got %q", ugErr.Name)
	}
	if err.Error() != "unknown generator: func_nope" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsInvocation(t *testing.T) {
	if !IsInvocation("func_guid") {
		t.Fatal("expected func_guid to be an invocation")
	}
	if IsInvocation("guid") || IsInvocation("") {
		t.Fatal("expected plain strings to be literals")
	}
}

func TestGUID(t *testing.T) {
	r := NewRegistry()
	got, err := r.Resolve("func_guid")
	if err != nil {
		t.Fatal(err)
	}
	pattern := regexp.MustCompile(`^\{[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\}$`)
	if !pattern.MatchString(got) {
		t.Fatalf("expected braced GUID, got %q", got)
	}
}

func TestSID(t *testing.T) {
	r := NewRegistry()
	got, err := r.Resolve("func_sid")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "S-1-5-21-") {
		t.Fatalf("expected S-1-5-21- prefix, got %q", got)
	}
	rid, err := strconv.ParseInt(strings.TrimPrefix(got, "S-1-5-21-"), 10, 64)
	if err != nil {
		t.Fatalf("expected numeric suffix, got %q", got)
	}
	if rid < 1000000000 || rid > 9999999999 {
		t.Fatalf("suffix %d out of range", rid)
	}
}

func TestHostname(t *testing.T) {
	r := NewRegistry()
	got, err := r.Resolve("func_hostname")
	if err != nil {
		t.Fatal(err)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(got, "WIN-"))
	if err != nil || n < 1000 || n > 9999 {
		t.Fatalf("expected WIN-1000..WIN-9999, got %q", got)
	}
}

func TestDatetimeFormats(t *testing.T) {
	r := NewRegistry()

	got, err := r.Resolve("func_datetime")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000000", got); err != nil {
		t.Fatalf("unexpected datetime format %q: %v", got, err)
	}

	got, err = r.Resolve("func_datetime_iso8601")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse("2006-01-02T15:04:05", got); err != nil {
		t.Fatalf("unexpected iso8601 format %q: %v", got, err)
	}
}

func TestRandint(t *testing.T) {
	r := NewRegistry()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := r.Resolve("func_randint 1 5")
		if err != nil {
			t.Fatal(err)
		}
		n, err := strconv.Atoi(got)
		if err != nil || n < 1 || n > 5 {
			t.Fatalf("expected value in [1,5], got %q", got)
		}
		seen[got] = true
	}
	// Bounds are inclusive.
	if !seen["1"] || !seen["5"] {
		t.Fatalf("expected both bounds over 200 draws, saw %v", seen)
	}

	if got, err := r.Resolve("func_randint 7 7"); err != nil || got != "7" {
		t.Fatalf("expected degenerate range to yield 7, got %q err %v", got, err)
	}

	for _, bad := range []string{"func_randint", "func_randint 1", "func_randint a 5", "func_randint 1 b", "func_randint 9 3"} {
		if _, err := r.Resolve(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRandIP(t *testing.T) {
	r := NewRegistry()
	got, err := r.Resolve("func_randip")
	if err != nil {
		t.Fatal(err)
	}
	ip := net.ParseIP(got)
	if ip == nil || ip.To4() == nil {
		t.Fatalf("expected IPv4 address, got %q", got)
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("static", func([]string) (string, error) {
		return "fixed", nil
	})
	got, err := r.Resolve("func_static")
	if err != nil || got != "fixed" {
		t.Fatalf("expected fixed, got %q err %v", got, err)
	}

	// Re-registering replaces the capability.
	r.Register("static", func([]string) (string, error) {
		return "other", nil
	})
	if got, _ := r.Resolve("func_static"); got != "other" {
		t.Fatalf("expected replacement to win, got %q", got)
	}
}
