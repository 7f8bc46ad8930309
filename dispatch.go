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

import "context"

// Package-level entry points operate on the context's active configuration
// (WithConfig override, falling back to SetDefault) and the process-wide
// resolver cache.

// Resolve finds the route matching path under the active configuration.
func Resolve(ctx context.Context, path string) (*Match, error) {
	cfg := ActiveConfig(ctx)
	if cfg == nil {
		return nil, ErrNoDefaultConfig
	}
	return Get(cfg).Resolve(ctx, path)
}

// Reverse reconstructs the path for a symbolic route name under the active
// configuration.
func Reverse(ctx context.Context, name string, opts ...ReverseOption) (string, error) {
	cfg := ActiveConfig(ctx)
	if cfg == nil {
		return "", ErrNoDefaultConfig
	}
	return Get(cfg).Reverse(ctx, name, opts...)
}

// ReverseHandler reverses by handler reference under the active
// configuration.
func ReverseHandler(ctx context.Context, handler Handler, opts ...ReverseOption) (string, error) {
	cfg := ActiveConfig(ctx)
	if cfg == nil {
		return "", ErrNoDefaultConfig
	}
	return Get(cfg).ReverseHandler(ctx, handler, opts...)
}

// IsValidPath reports whether path resolves under the active configuration,
// avoiding error plumbing for plain "does this match?" checks.
func IsValidPath(ctx context.Context, path string) bool {
	_, err := Resolve(ctx, path)
	return err == nil
}
