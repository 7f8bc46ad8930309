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

package pattern

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rivaas.dev/dispatch/convert"
)

var (
	// ErrMissingParameter indicates that rendering was attempted without a
	// value for a required parameter.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrValueMismatch indicates that a formatted value failed to re-match
	// its own character class. Rendering such a value would generate a URL
	// that does not resolve back to the same route.
	ErrValueMismatch = errors.New("value does not match parameter class")

	// ErrNotReversible indicates that a pattern cannot be rendered back into
	// a path (e.g. a regex pattern using constructs the renderer does not
	// support).
	ErrNotReversible = errors.New("pattern is not reversible")

	// ErrBadTemplate indicates a malformed route template or regex.
	ErrBadTemplate = errors.New("malformed pattern")
)

// RenderError reports a failed attempt to render a pattern into a path
// fragment. Reverse lookup treats it as "try the next candidate"; it only
// surfaces to callers once every candidate is exhausted.
type RenderError struct {
	Param string // Parameter that failed (empty for whole-pattern failures)
	Err   error
}

func (e *RenderError) Error() string {
	if e.Param == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("parameter %q: %v", e.Param, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Captures is the result of a successful pattern match.
type Captures struct {
	// Rest is the unconsumed remainder of the path. Endpoint patterns must
	// leave it empty for the resolver to accept the match.
	Rest string

	// Args holds positional captures. Only regex patterns without named
	// groups produce positional captures.
	Args []any

	// Kwargs holds named captures, already converted to their typed values.
	Kwargs map[string]any
}

// Segment is one piece of a renderable pattern: either literal text or a
// named parameter slot.
type Segment struct {
	Static bool
	Value  string // literal text, or the parameter name
}

// Param describes one renderable parameter: its name, the anchored character
// class used for the round-trip check, and the converter used to format
// values (nil for regex patterns, which format with fmt semantics).
type Param struct {
	Name      string
	Check     *regexp.Regexp
	Converter convert.Converter
}

// Possibility is one renderable form of a pattern: an ordered segment list
// plus its parameters in order of appearance. Patterns with optional groups
// may expose more than one possibility.
type Possibility struct {
	Segments []Segment
	Params   []Param
}

// Pattern is the common contract for both pattern kinds (structured route
// templates and free-form regexes). Patterns are immutable once compiled and
// safe for concurrent use.
//
// Match consumes the path left to right and is anchored at the start of the
// input; Possibilities exposes the renderable forms used by reverse lookup.
// The context carries ambient scope (e.g. the active language for
// language-prefixed patterns); plain patterns ignore it.
type Pattern interface {
	Match(ctx context.Context, path string) (*Captures, bool)
	Possibilities(ctx context.Context) []Possibility
	Converters() map[string]convert.Converter
	Route(ctx context.Context) string
	IsEndpoint() bool
}

// ParamNames returns the parameter names in order of appearance.
func (p *Possibility) ParamNames() []string {
	names := make([]string, len(p.Params))
	for i := range p.Params {
		names[i] = p.Params[i].Name
	}
	return names
}

// Render rebuilds a path fragment from the given parameter values. Values are
// formatted through each parameter's converter (fmt semantics for regex
// parameters) and must re-match the parameter's character class, guarding
// against generated URLs that would not resolve back to this pattern.
//
// The output is raw (not percent-encoded); encoding for wire transmission
// happens once on the fully assembled URL.
func (p *Possibility) Render(values map[string]any) (string, error) {
	var buf strings.Builder

	for _, seg := range p.Segments {
		if seg.Static {
			buf.WriteString(seg.Value)
			continue
		}

		value, ok := values[seg.Value]
		if !ok {
			return "", &RenderError{Param: seg.Value, Err: ErrMissingParameter}
		}

		text, err := formatValue(p.paramByName(seg.Value), value)
		if err != nil {
			return "", &RenderError{Param: seg.Value, Err: err}
		}
		buf.WriteString(text)
	}

	return buf.String(), nil
}

func (p *Possibility) paramByName(name string) *Param {
	for i := range p.Params {
		if p.Params[i].Name == name {
			return &p.Params[i]
		}
	}
	return nil
}

func formatValue(param *Param, value any) (string, error) {
	var text string

	if param != nil && param.Converter != nil {
		formatted, err := param.Converter.Format(value)
		if err != nil {
			return "", err
		}
		text = formatted
	} else {
		text = fmt.Sprint(value)
	}

	if param != nil && param.Check != nil && !param.Check.MatchString(text) {
		return "", fmt.Errorf("%w: %q", ErrValueMismatch, text)
	}
	return text, nil
}

// Concat joins two possibilities into one, used when a namespace prefix is
// prepended to a leaf candidate during reverse lookup.
func Concat(prefix, suffix Possibility) Possibility {
	out := Possibility{
		Segments: make([]Segment, 0, len(prefix.Segments)+len(suffix.Segments)),
		Params:   make([]Param, 0, len(prefix.Params)+len(suffix.Params)),
	}
	out.Segments = append(out.Segments, prefix.Segments...)
	out.Segments = append(out.Segments, suffix.Segments...)
	out.Params = append(out.Params, prefix.Params...)
	out.Params = append(out.Params, suffix.Params...)
	return out
}
