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
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// TranslateURL rewrites a URL (absolute or relative) into its equivalent
// under the target language: the path is resolved, then re-reversed with the
// same name and arguments while the target language is active.
//
// This is a best-effort, silently degrading helper: if the path does not
// resolve, the match is unnamed, or the reverse fails, the input is returned
// unchanged. Query string and fragment are preserved.
func TranslateURL(ctx context.Context, rawURL string, target language.Tag) string {
	cfg := ActiveConfig(ctx)
	if cfg == nil {
		return rawURL
	}
	return Get(cfg).TranslateURL(ctx, rawURL, target)
}

// TranslateURL is the resolver-scoped form of the package-level helper.
func (r *Resolver) TranslateURL(ctx context.Context, rawURL string, target language.Tag) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	m, err := r.Resolve(ctx, parsed.Path)
	if err != nil {
		return rawURL
	}
	name := m.ViewName()
	if name == "" {
		return rawURL
	}

	tctx := WithLanguage(ctx, target)
	var translated string
	switch {
	case len(m.Kwargs) > 0:
		translated, err = r.Reverse(tctx, name, Kwargs(m.Kwargs))
	case len(m.Args) > 0:
		translated, err = r.Reverse(tctx, name, Args(m.Args...))
	default:
		translated, err = r.Reverse(tctx, name)
	}
	if err != nil {
		return rawURL
	}

	var buf strings.Builder
	if parsed.Scheme != "" {
		buf.WriteString(parsed.Scheme)
		buf.WriteString(":")
	}
	if parsed.Host != "" {
		buf.WriteString("//")
		buf.WriteString(parsed.Host)
	}
	buf.WriteString(translated)
	if parsed.RawQuery != "" {
		buf.WriteString("?")
		buf.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" {
		buf.WriteString("#")
		buf.WriteString(parsed.Fragment)
	}
	return buf.String()
}
