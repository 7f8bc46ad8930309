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
	"sync/atomic"

	"golang.org/x/text/language"
)

// Ambient scope (script prefix, active configuration, active language) is
// carried as explicit context values rather than implicit per-thread state.
// Each request-handling goroutine derives its own context; setting a value in
// one context never affects another, and "clearing" is returning to the
// parent context. The caller that sets a value owns that pairing; nothing
// here expires automatically.

type contextKey int

const (
	scriptPrefixKey contextKey = iota
	activeConfigKey
	activeLanguageKey
)

// WithScriptPrefix returns a context whose generated URLs are prefixed with
// prefix (an externally configured mount point, e.g. "/app"). A trailing
// slash is appended if missing.
func WithScriptPrefix(ctx context.Context, prefix string) context.Context {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return context.WithValue(ctx, scriptPrefixKey, prefix)
}

// ScriptPrefix returns the active script prefix, "/" when unset.
func ScriptPrefix(ctx context.Context) string {
	if prefix, ok := ctx.Value(scriptPrefixKey).(string); ok {
		return prefix
	}
	return "/"
}

// WithConfig returns a context that overrides the default configuration for
// package-level Resolve and Reverse calls.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, activeConfigKey, cfg)
}

// ActiveConfig returns the configuration in effect for ctx: the WithConfig
// override if present, otherwise the SetDefault value, otherwise nil.
func ActiveConfig(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(activeConfigKey).(*Config); ok && cfg != nil {
		return cfg
	}
	return defaultConfig.Load()
}

// WithLanguage returns a context with the given active language. The active
// language selects the prefix of LocalePrefix subtrees for both resolution
// and reverse lookup.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, activeLanguageKey, tag)
}

// ActiveLanguage returns the active language for ctx, language.Und when
// unset. With no active language, LocalePrefix subtrees fall back to their
// configured default.
func ActiveLanguage(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(activeLanguageKey).(language.Tag); ok {
		return tag
	}
	return language.Und
}

// defaultConfig is the process-wide fallback used when a context carries no
// WithConfig override. Set once at startup via SetDefault.
var defaultConfig atomic.Pointer[Config]

// SetDefault installs the process-wide default configuration consulted by
// the package-level Resolve, Reverse and TranslateURL functions.
// It does not clear previously cached resolvers; call ClearCaches if the
// previous default must be forgotten.
func SetDefault(cfg *Config) {
	defaultConfig.Store(cfg)
}
