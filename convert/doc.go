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

// Package convert provides typed path segment converters for route templates.
//
// A converter pairs a character class (used while matching a path) with parse
// and format functions (used to produce typed capture values and to rebuild
// path segments during reverse lookup). The built-in converters cover the
// common segment shapes:
//
//	int   [0-9]+                 → int
//	str   [^/]+                  → string (the default)
//	slug  [-a-zA-Z0-9_]+         → string
//	uuid  canonical dashed form  → uuid.UUID
//	path  .+                     → string
//
// Custom converters are registered on a Registry:
//
//	convert.Register("hex", hexConverter{})
//
// and then referenced from route templates as <hex:digest>.
package convert
