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
	"fmt"
	"regexp"
	"strings"

	"rivaas.dev/dispatch/convert"
)

// RoutePattern is the structured pattern kind. Templates mix literal text
// with named captures:
//
//	articles/<int:year>/<slug:title>/
//
// A capture without a type token (<name>) uses the str converter. Matching is
// anchored at the start of the input; endpoint patterns additionally require
// the whole input to be consumed (enforced with a terminal anchor).
//
// RoutePattern is immutable after compilation and safe for concurrent use.
type RoutePattern struct {
	template    string
	endpoint    bool
	regex       *regexp.Regexp
	groupNames  []string // capture names in template order
	converters  map[string]convert.Converter
	possibility Possibility
}

var nameRx = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// CompileRoute compiles a structured route template. Endpoint patterns must
// match the full remaining path; non-endpoint (prefix) patterns consume a
// prefix and leave the remainder for a nested resolver.
//
// Converter names are resolved against reg at compile time; unknown names are
// a configuration error, reported before the first request is served.
func CompileRoute(template string, endpoint bool, reg *convert.Registry) (*RoutePattern, error) {
	if reg == nil {
		reg = convert.Default()
	}
	if strings.HasPrefix(template, "/") {
		return nil, fmt.Errorf("%w: route %q must not start with a slash", ErrBadTemplate, template)
	}

	p := &RoutePattern{
		template:   template,
		endpoint:   endpoint,
		converters: make(map[string]convert.Converter),
	}

	var (
		expr strings.Builder
		seen = make(map[string]bool)
	)
	expr.WriteString("^")

	rest := template
	for rest != "" {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			if strings.ContainsRune(rest, '>') {
				return nil, fmt.Errorf("%w: unbalanced '>' in route %q", ErrBadTemplate, template)
			}
			p.appendLiteral(&expr, rest)
			break
		}

		literal := rest[:open]
		if strings.ContainsRune(literal, '>') {
			return nil, fmt.Errorf("%w: unbalanced '>' in route %q", ErrBadTemplate, template)
		}
		p.appendLiteral(&expr, literal)

		closing := strings.IndexByte(rest[open:], '>')
		if closing < 0 {
			return nil, fmt.Errorf("%w: unbalanced '<' in route %q", ErrBadTemplate, template)
		}

		capture := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		convName := "str"
		paramName := capture
		if colon := strings.IndexByte(capture, ':'); colon >= 0 {
			convName = capture[:colon]
			paramName = capture[colon+1:]
		}
		if !nameRx.MatchString(paramName) {
			return nil, fmt.Errorf("%w: capture name %q in route %q is not a valid identifier", ErrBadTemplate, paramName, template)
		}
		if seen[paramName] {
			return nil, fmt.Errorf("%w: duplicate capture name %q in route %q", ErrBadTemplate, paramName, template)
		}
		seen[paramName] = true

		conv, err := reg.Get(convName)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", template, err)
		}

		p.groupNames = append(p.groupNames, paramName)
		p.converters[paramName] = conv
		expr.WriteString("(" + conv.Regex() + ")")

		p.possibility.Segments = append(p.possibility.Segments, Segment{Value: paramName})
		p.possibility.Params = append(p.possibility.Params, Param{
			Name:      paramName,
			Check:     regexp.MustCompile("^(?:" + conv.Regex() + ")$"),
			Converter: conv,
		})
	}

	if endpoint {
		expr.WriteString("$")
	}

	rx, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: route %q: %v", ErrBadTemplate, template, err)
	}
	p.regex = rx

	return p, nil
}

// MustCompileRoute is like CompileRoute but panics on error. Intended for
// route declarations evaluated at application startup.
func MustCompileRoute(template string, endpoint bool, reg *convert.Registry) *RoutePattern {
	p, err := CompileRoute(template, endpoint, reg)
	if err != nil {
		panic(err.Error())
	}
	return p
}

func (p *RoutePattern) appendLiteral(expr *strings.Builder, literal string) {
	if literal == "" {
		return
	}
	expr.WriteString(regexp.QuoteMeta(literal))
	p.possibility.Segments = append(p.possibility.Segments, Segment{Static: true, Value: literal})
}

// Match tests path against the template. Named captures are converted to
// their typed values; a converter parse failure means no match, so the
// resolver moves on to the next route.
func (p *RoutePattern) Match(_ context.Context, path string) (*Captures, bool) {
	loc := p.regex.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}

	caps := &Captures{Rest: path[loc[1]:]}
	if len(p.groupNames) > 0 {
		caps.Kwargs = make(map[string]any, len(p.groupNames))
		for i, name := range p.groupNames {
			start, end := loc[2*(i+1)], loc[2*(i+1)+1]
			value, err := p.converters[name].Parse(path[start:end])
			if err != nil {
				return nil, false
			}
			caps.Kwargs[name] = value
		}
	}

	return caps, true
}

// Possibilities returns the single renderable form of the template.
func (p *RoutePattern) Possibilities(context.Context) []Possibility {
	return []Possibility{p.possibility}
}

// Converters returns the converters for the template's named captures.
func (p *RoutePattern) Converters() map[string]convert.Converter {
	return p.converters
}

// Route returns the original template text.
func (p *RoutePattern) Route(context.Context) string { return p.template }

// IsEndpoint reports whether this pattern terminates a route.
func (p *RoutePattern) IsEndpoint() bool { return p.endpoint }

func (p *RoutePattern) String() string { return p.template }
