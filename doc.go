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

// Package dispatch is an in-process URL resolution and reverse-lookup
// library: it matches incoming paths against an ordered tree of route
// declarations and rebuilds canonical paths from symbolic route names.
//
// It is deliberately not an HTTP framework. There is no server, no
// middleware and no response handling; handlers are opaque references the
// calling framework dispatches to after resolution.
//
// # Key Features
//
//   - Structured route templates with typed captures (articles/<int:year>/)
//     and free-form regex patterns, reduced to one pattern contract
//   - First-match-wins resolution in declaration order, with typed capture
//     values and a namespace trail on every match
//   - Reverse lookup from namespaced names (blog:detail) with current-app
//     instance affinity, trying same-named candidates in declaration order
//   - Language-prefixed subtrees and best-effort URL translation
//   - Process-wide resolver memoization with explicit invalidation
//   - Opt-in OpenTelemetry metrics and tracing
//
// # Quick Start
//
//	conf := dispatch.NewConfig(
//	    dispatch.Path("articles/<int:year>/", yearArchive).Name("year_archive"),
//	    dispatch.Include("blog/", blogConf),
//	)
//	dispatch.SetDefault(conf)
//
//	m, err := dispatch.Resolve(ctx, "/articles/2023/")
//	// m.Handler == yearArchive, m.Kwargs == map[string]any{"year": 2023}
//
//	url, err := dispatch.Reverse(ctx, "blog:detail",
//	    dispatch.Kwargs(map[string]any{"slug": "hello"}))
//	// url == "/blog/hello/"
//
// # Constructor Pattern
//
// Route declarations (Path, Include, ...) panic on malformed templates and
// conflicting options. Declarations are evaluated once at startup; a
// configuration error must fail fast, before the first request is served.
// Per-request failures (no match, no reverse match) are ordinary errors the
// calling framework translates into its own responses.
//
// # Ambient Scope
//
// The script prefix, the active configuration and the active language are
// explicit context values (WithScriptPrefix, WithConfig, WithLanguage), not
// hidden per-thread state. A caller that sets a value owns the pairing;
// reverting means returning to the parent context.
package dispatch
