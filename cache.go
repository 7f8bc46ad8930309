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

import "sync"

// resolverCache memoizes one resolver per configuration identity for the
// process lifetime. Resolvers are fully built before publication, so a
// concurrent first access either wins the LoadOrStore race or adopts the
// winner; callers never observe a partially built resolver. Invalidation is
// explicit (ClearCaches), never TTL-based.
var resolverCache sync.Map // *Config → *Resolver

// Get returns the memoized resolver for cfg, building it on first use.
// Two calls with the same configuration return the identical resolver until
// ClearCaches is invoked.
//
// Resolvers obtained through Get carry no per-instance options; use New for
// a resolver with observability or diagnostics attached.
func Get(cfg *Config) *Resolver {
	if cached, ok := resolverCache.Load(cfg); ok {
		return cached.(*Resolver)
	}
	built := New(cfg)
	actual, _ := resolverCache.LoadOrStore(cfg, built)
	return actual.(*Resolver)
}

// ClearCaches drops every memoized resolver. Safe to call concurrently with
// in-flight resolutions: readers that miss simply rebuild, and rebuilds are
// idempotent over immutable configurations.
func ClearCaches() {
	resolverCache.Range(func(key, _ any) bool {
		resolverCache.Delete(key)
		return true
	})
}
