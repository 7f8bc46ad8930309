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

// RegexPattern is the free-form pattern kind. The expression is matched
// anchored at the start of the input:
//
//	^articles/(?P<year>[0-9]{4})/
//
// Named groups produce named captures (as strings); expressions without named
// groups produce positional captures. Mixing named and unnamed groups uses
// only the named ones, so unnamed groups become non-capturing for callers.
//
// A leading ^ is accepted and stripped; matching is always anchored at offset
// zero regardless. An expression matching mid-path would silently skip a
// prefix, which is never what a route declaration means.
//
// RegexPattern is immutable after compilation and safe for concurrent use.
type RegexPattern struct {
	expr          string
	endpoint      bool
	regex         *regexp.Regexp
	groupNames    []string // named groups in order; empty if none
	possibilities []Possibility
}

// CompileRegex compiles a free-form regex pattern.
//
// Reverse lookup support is best-effort: simple expressions (literals, named
// groups, optional non-capturing groups) are renderable; expressions using
// alternation, classes or quantifiers outside groups yield no render
// possibilities and can only be used for forward matching.
func CompileRegex(expr string, endpoint bool) (*RegexPattern, error) {
	trimmed := strings.TrimPrefix(expr, "^")

	rx, err := regexp.Compile("^(?:" + trimmed + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: regex %q: %v", ErrBadTemplate, expr, err)
	}

	p := &RegexPattern{
		expr:     expr,
		endpoint: endpoint,
		regex:    rx,
	}

	for _, name := range rx.SubexpNames() {
		if name != "" {
			p.groupNames = append(p.groupNames, name)
		}
	}

	if poss, ok := normalizeRegex(strings.TrimSuffix(trimmed, "$")); ok {
		p.possibilities = []Possibility{poss}
	}

	return p, nil
}

// MustCompileRegex is like CompileRegex but panics on error.
func MustCompileRegex(expr string, endpoint bool) *RegexPattern {
	p, err := CompileRegex(expr, endpoint)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Match tests path against the expression, anchored at the start.
func (p *RegexPattern) Match(_ context.Context, path string) (*Captures, bool) {
	loc := p.regex.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}

	caps := &Captures{Rest: path[loc[1]:]}

	names := p.regex.SubexpNames()
	if len(p.groupNames) > 0 {
		// Named groups win; unnamed groups are ignored.
		caps.Kwargs = make(map[string]any, len(p.groupNames))
		for i, name := range names {
			if name == "" || i == 0 {
				continue
			}
			if loc[2*i] < 0 {
				continue // unmatched optional group
			}
			caps.Kwargs[name] = path[loc[2*i]:loc[2*i+1]]
		}
	} else {
		for i := 1; i < len(names); i++ {
			if loc[2*i] < 0 {
				continue
			}
			caps.Args = append(caps.Args, path[loc[2*i]:loc[2*i+1]])
		}
	}

	return caps, true
}

// Possibilities returns the renderable forms of the expression, or nil when
// the expression is too complex to reverse.
func (p *RegexPattern) Possibilities(context.Context) []Possibility {
	return p.possibilities
}

// Converters returns nil: regex captures are plain strings and render with
// fmt semantics plus a group-class round-trip check.
func (p *RegexPattern) Converters() map[string]convert.Converter { return nil }

// Route returns the original expression text.
func (p *RegexPattern) Route(context.Context) string { return p.expr }

// IsEndpoint reports whether this pattern terminates a route.
func (p *RegexPattern) IsEndpoint() bool { return p.endpoint }

func (p *RegexPattern) String() string { return p.expr }

// normalizeRegex converts a regex into a renderable possibility. It supports
// the subset that real route declarations use: literal text, escaped
// punctuation, named groups, and optional non-capturing groups (dropped).
// Anything else makes the pattern forward-match only.
func normalizeRegex(expr string) (Possibility, bool) {
	var (
		poss    Possibility
		literal strings.Builder
	)

	flushLiteral := func() {
		if literal.Len() > 0 {
			poss.Segments = append(poss.Segments, Segment{Static: true, Value: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(expr) {
		c := expr[i]
		switch c {
		case '\\':
			if i+1 >= len(expr) {
				return Possibility{}, false
			}
			next := expr[i+1]
			// Escaped punctuation is literal text; character-class escapes
			// (\d, \w, ...) have no single rendering.
			if isASCIILetterOrDigit(next) {
				return Possibility{}, false
			}
			literal.WriteByte(next)
			i += 2

		case '(':
			if strings.HasPrefix(expr[i:], "(?P<") {
				end := strings.IndexByte(expr[i:], '>')
				if end < 0 {
					return Possibility{}, false
				}
				name := expr[i+4 : i+end]
				body, rest, ok := groupBody(expr[i+end+1:])
				if !ok {
					return Possibility{}, false
				}
				check, err := regexp.Compile("^(?:" + body + ")$")
				if err != nil {
					return Possibility{}, false
				}

				flushLiteral()
				poss.Segments = append(poss.Segments, Segment{Value: name})
				poss.Params = append(poss.Params, Param{Name: name, Check: check})
				i = len(expr) - len(rest)
				continue
			}

			// Non-capturing group: renderable only when optional, in which
			// case the group is dropped from the rendered form.
			body, rest, ok := groupBody(expr[i+1:])
			if !ok {
				return Possibility{}, false
			}
			_ = body
			if !strings.HasPrefix(rest, "?") {
				return Possibility{}, false
			}
			i = len(expr) - len(rest) + 1

		case '[', '|', '+', '*', '?', '{', ')':
			return Possibility{}, false

		case '$', '^':
			i++

		case '.':
			return Possibility{}, false

		default:
			literal.WriteByte(c)
			i++
		}
	}

	flushLiteral()
	return poss, true
}

// groupBody returns the text up to the matching close paren and the remainder
// after it. The opening paren (and any (?:/?P<name> header) must already be
// consumed by the caller.
func groupBody(s string) (body, rest string, ok bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

func isASCIILetterOrDigit(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
