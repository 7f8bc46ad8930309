// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrUnknownConverter indicates that a route template references a
	// converter name that is not registered.
	ErrUnknownConverter = errors.New("unknown converter")

	// ErrCannotParse indicates that a captured substring was rejected by the
	// converter's parse function.
	ErrCannotParse = errors.New("cannot parse value")

	// ErrCannotFormat indicates that a value could not be formatted back into
	// a path segment by the converter.
	ErrCannotFormat = errors.New("cannot format value")
)

// Converter converts between path segment text and typed values for one
// capture segment type (e.g. <int:year>).
//
// Converters must round-trip: for any text accepted by Parse, Format of the
// parsed value must reproduce text that re-matches Regex. Reverse lookup
// relies on this to guarantee that generated URLs resolve back to themselves.
type Converter interface {
	// Regex returns the character class matched by this converter.
	// The expression must not contain capturing groups.
	Regex() string

	// Parse converts matched text into a typed value.
	// Returning an error makes the enclosing pattern treat the path as
	// not matching, so the resolver moves on to the next route.
	Parse(s string) (any, error)

	// Format converts a typed value back into path segment text.
	Format(v any) (string, error)
}

// IntConverter matches non-negative decimal integers and yields int values.
type IntConverter struct{}

func (IntConverter) Regex() string { return "[0-9]+" }

func (IntConverter) Parse(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrCannotParse, s)
	}
	return n, nil
}

func (IntConverter) Format(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case string:
		if _, err := strconv.Atoi(n); err != nil {
			return "", fmt.Errorf("%w: %q is not an integer", ErrCannotFormat, n)
		}
		return n, nil
	default:
		return "", fmt.Errorf("%w: int converter got %T", ErrCannotFormat, v)
	}
}

// StringConverter matches any non-empty text without a path separator.
// This is the default converter when a capture omits the type token.
type StringConverter struct{}

func (StringConverter) Regex() string { return "[^/]+" }

func (StringConverter) Parse(s string) (any, error) { return s, nil }

func (StringConverter) Format(v any) (string, error) { return formatString(v) }

// SlugConverter matches ASCII letters, numbers, hyphens and underscores.
type SlugConverter struct{}

func (SlugConverter) Regex() string { return "[-a-zA-Z0-9_]+" }

func (SlugConverter) Parse(s string) (any, error) { return s, nil }

func (SlugConverter) Format(v any) (string, error) { return formatString(v) }

// UUIDConverter matches formatted UUIDs and yields uuid.UUID values.
// Only the canonical lowercase, dashed form is accepted.
type UUIDConverter struct{}

func (UUIDConverter) Regex() string {
	return "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"
}

func (UUIDConverter) Parse(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a UUID", ErrCannotParse, s)
	}
	return id, nil
}

func (UUIDConverter) Format(v any) (string, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a UUID", ErrCannotFormat, id)
		}
		return strings.ToLower(parsed.String()), nil
	default:
		return "", fmt.Errorf("%w: uuid converter got %T", ErrCannotFormat, v)
	}
}

// PathConverter matches any non-empty text, including path separators.
// Useful for capturing the tail of a path, similar to a wildcard segment.
type PathConverter struct{}

func (PathConverter) Regex() string { return ".+" }

func (PathConverter) Parse(s string) (any, error) { return s, nil }

func (PathConverter) Format(v any) (string, error) { return formatString(v) }

func formatString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrCannotFormat, v)
	}
}

// Registry maps converter names (the type token in <type:name> captures) to
// Converter implementations.
//
// Thread safety: Register and Get are safe for concurrent use. Converters are
// expected to be registered during application startup, before route
// configuration is compiled.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry creates a registry pre-populated with the built-in converters:
// int, str, slug, uuid and path.
func NewRegistry() *Registry {
	return &Registry{
		converters: map[string]Converter{
			"int":  IntConverter{},
			"str":  StringConverter{},
			"slug": SlugConverter{},
			"uuid": UUIDConverter{},
			"path": PathConverter{},
		},
	}
}

// Register adds or replaces a converter under the given name.
// Panics if the converter's character class is not a valid regular expression
// or contains capturing groups. This is intentional for early error detection
// during application startup.
func (r *Registry) Register(name string, c Converter) {
	rx, err := regexp.Compile("^(?:" + c.Regex() + ")$")
	if err != nil {
		panic("convert: invalid character class for converter " + name + ": " + err.Error())
	}
	if rx.NumSubexp() != 0 {
		panic("convert: character class for converter " + name + " must not contain capturing groups")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[name] = c
}

// Get returns the converter registered under name.
func (r *Registry) Get(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConverter, name)
	}
	return c, nil
}

// Names returns the registered converter names. Intended for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	return names
}

// defaultRegistry backs the package-level helpers.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when route configuration
// does not supply its own.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a converter to the default registry.
func Register(name string, c Converter) {
	defaultRegistry.Register(name, c)
}
