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

// Package pattern compiles route templates into matchers and renderers.
//
// Two pattern kinds reduce to the same Pattern contract:
//
//   - RoutePattern: structured templates with typed captures, e.g.
//     "articles/<int:year>/". Captures are converted by the convert package.
//   - RegexPattern: free-form regular expressions with named groups, e.g.
//     "^articles/(?P<year>[0-9]{4})/". Captures are plain strings.
//
// Matching is anchored at the start of the input and consumes a prefix;
// endpoint patterns must consume the whole input. Rendering reverses a match:
// a Possibility's Render rebuilds the path fragment from parameter values and
// enforces the round-trip law (a formatted value must re-match its own
// character class).
package pattern
