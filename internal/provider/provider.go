// SPDX-License-Identifier: Apache-2.0

// Package provider resolves field value specifications. A spec is
// either a literal string, returned unchanged, or an invocation of a
// named generator capability marked with the "func_" prefix, e.g.
// "func_randint 1 10".
package provider

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Marker prefixes a value specification that invokes a generator
// capability instead of standing for itself.
const Marker = "func_"

// UnknownGeneratorError reports a spec that names an unregistered
// capability. Callers are expected to catch it and degrade to the
// literal spec text; a missing generator must not abort a record.
type UnknownGeneratorError struct {
	Name string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("unknown generator: %s", e.Name)
}

// GeneratorFunc produces a value from positional string arguments.
type GeneratorFunc func(args []string) (string, error)

// Registry maps capability names to generator functions. It is built
// once at startup; Resolve is safe for concurrent use.
type Registry struct {
	generators map[string]GeneratorFunc
}

// NewRegistry returns a registry preloaded with the built-in
// capabilities.
func NewRegistry() *Registry {
	r := &Registry{generators: make(map[string]GeneratorFunc)}
	r.Register("guid", genGUID)
	r.Register("sid", genSID)
	r.Register("hostname", genHostname)
	r.Register("datetime", genDatetime)
	r.Register("datetime_iso8601", genDatetimeISO8601)
	r.Register("randint", genRandint)
	r.Register("randip", genRandIP)
	return r
}

// Register adds or replaces a capability. Intended for startup wiring;
// registration is not synchronized against concurrent Resolve calls.
func (r *Registry) Register(name string, fn GeneratorFunc) {
	r.generators[name] = fn
}

// IsInvocation reports whether spec invokes a generator capability
// rather than standing for a literal value.
func IsInvocation(spec string) bool {
	return strings.HasPrefix(spec, Marker)
}

// Resolve turns a value specification into a concrete value. Literals
// pass through unchanged. For invocations the first whitespace token
// names the capability (with the marker prefix) and the remaining
// tokens are positional arguments.
func (r *Registry) Resolve(spec string) (string, error) {
	if !IsInvocation(spec) {
		return spec, nil
	}

	tokens := strings.Fields(spec)
	name := strings.TrimPrefix(tokens[0], Marker)

	fn, ok := r.generators[name]
	if !ok {
		return "", &UnknownGeneratorError{Name: tokens[0]}
	}

	return fn(tokens[1:])
}

func genGUID([]string) (string, error) {
	return "{" + uuid.NewString() + "}", nil
}

func genSID([]string) (string, error) {
	return fmt.Sprintf("S-1-5-21-%d", 1000000000+rand.Int64N(9000000000)), nil
}

func genHostname([]string) (string, error) {
	return fmt.Sprintf("WIN-%d", 1000+rand.IntN(9000)), nil
}

func genDatetime([]string) (string, error) {
	return time.Now().Format("2006-01-02T15:04:05.000000"), nil
}

func genDatetimeISO8601([]string) (string, error) {
	return time.Now().Format("2006-01-02T15:04:05"), nil
}

func genRandint(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("randint expects 2 arguments, got %d", len(args))
	}
	min, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", fmt.Errorf("randint: invalid min %q", args[0])
	}
	max, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("randint: invalid max %q", args[1])
	}
	if min > max {
		return "", fmt.Errorf("randint: min %d greater than max %d", min, max)
	}
	return strconv.FormatInt(min+rand.Int64N(max-min+1), 10), nil
}

func genRandIP([]string) (string, error) {
	// Anything from 0.0.0.1 through 255.255.255.255.
	v := 1 + rand.Uint32N(1<<32-1)
	return fmt.Sprintf("%d.%d.%d.%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
}
