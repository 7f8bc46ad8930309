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

package dispatch

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"rivaas.dev/dispatch/convert"
	"rivaas.dev/dispatch/pattern"
)

// LocaleOption configures a LocalePrefix subtree.
type LocaleOption func(*localePattern)

// DefaultLanguage sets the language assumed when the context carries none.
// Defaults to the first supported language.
func DefaultLanguage(tag language.Tag) LocaleOption {
	return func(p *localePattern) {
		p.defaultTag = tag
	}
}

// PrefixDefaultLanguage controls whether the default language carries a path
// prefix. When false (the default), "/articles/" serves the default language
// and "/fr/articles/" the others.
func PrefixDefaultLanguage(on bool) LocaleOption {
	return func(p *localePattern) {
		p.prefixDefault = on
	}
}

// LocalePrefix declares a subtree whose paths are prefixed with the active
// language ("/en/...", "/fr/..."). Resolution detects the language from the
// path and activates it for the subtree; reverse lookup renders the prefix of
// the context's active language, which is how TranslateURL moves a URL
// between languages.
//
// Only valid at the root configuration: nesting a language-prefixed subtree
// inside an include is a configuration error (Include panics on it).
//
// Example:
//
//	conf := dispatch.NewConfig(
//	    dispatch.Path("about/", about).Name("about"),
//	    dispatch.LocalePrefix(
//	        []language.Tag{language.English, language.French},
//	        articleConf,
//	    ),
//	)
func LocalePrefix(languages []language.Tag, cfg *Config, opts ...LocaleOption) *Route {
	if len(languages) == 0 {
		panic("dispatch: LocalePrefix requires at least one language")
	}

	p := &localePattern{
		tags:       languages,
		defaultTag: languages[0],
	}
	for _, opt := range opts {
		opt(p)
	}

	rt := Subtree(p, cfg)
	rt.locale = true
	return rt
}

// localePattern is the branch pattern for LocalePrefix subtrees. Its prefix
// is not fixed text: it is the active language's tag, or empty for the
// unprefixed default language. Implements pattern.Pattern.
type localePattern struct {
	tags          []language.Tag
	defaultTag    language.Tag
	prefixDefault bool
}

// active returns the language this pattern operates under for ctx.
func (p *localePattern) active(ctx context.Context) language.Tag {
	tag := ActiveLanguage(ctx)
	if tag == language.Und {
		return p.defaultTag
	}
	return tag
}

// prefix returns the path fragment for the given language ("fr/", or "" for
// the unprefixed default).
func (p *localePattern) prefix(tag language.Tag) string {
	if tag == p.defaultTag && !p.prefixDefault {
		return ""
	}
	return tag.String() + "/"
}

// detect extracts a supported language from the first path segment.
func (p *localePattern) detect(path string) (language.Tag, bool) {
	seg, _, ok := strings.Cut(path, "/")
	if !ok || seg == "" {
		return language.Und, false
	}
	parsed, err := language.Parse(seg)
	if err != nil {
		return language.Und, false
	}
	for _, tag := range p.tags {
		if tag == parsed {
			return tag, true
		}
	}
	return language.Und, false
}

func (p *localePattern) Match(ctx context.Context, path string) (*pattern.Captures, bool) {
	rest, ok := strings.CutPrefix(path, p.prefix(p.active(ctx)))
	if !ok {
		return nil, false
	}
	return &pattern.Captures{Rest: rest}, true
}

func (p *localePattern) Possibilities(ctx context.Context) []pattern.Possibility {
	prefix := p.prefix(p.active(ctx))
	if prefix == "" {
		return []pattern.Possibility{{}}
	}
	return []pattern.Possibility{{
		Segments: []pattern.Segment{{Static: true, Value: prefix}},
	}}
}

func (p *localePattern) Converters() map[string]convert.Converter { return nil }

func (p *localePattern) Route(ctx context.Context) string { return p.prefix(p.active(ctx)) }

func (p *localePattern) IsEndpoint() bool { return false }

// activateFromPath derives the subtree context for a locale branch: the
// language found in the path wins; otherwise an already-active language is
// respected; otherwise the configured default applies.
func activateFromPath(ctx context.Context, rt *Route, path string) context.Context {
	lp, ok := rt.pattern.(*localePattern)
	if !ok {
		return ctx
	}
	if tag, found := lp.detect(path); found {
		return WithLanguage(ctx, tag)
	}
	if ActiveLanguage(ctx) == language.Und {
		return WithLanguage(ctx, lp.defaultTag)
	}
	return ctx
}
