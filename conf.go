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
	"maps"

	"rivaas.dev/dispatch/pattern"
)

// Handler is an opaque reference to the code a route dispatches to. The
// resolver never calls it; it only matches paths to handlers and hands the
// reference back to the calling framework.
type Handler any

// Config is an ordered set of route declarations, optionally carrying an
// application name for namespacing. Configs are immutable after construction
// and may be included under several prefixes (application instances).
type Config struct {
	appName string
	routes  []*Route
}

// NewConfig creates a route configuration.
//
// Example:
//
//	conf := dispatch.NewConfig(
//	    dispatch.Path("articles/<int:year>/", viewYear).Name("year_archive"),
//	    dispatch.Include("blog/", blogConf),
//	)
func NewConfig(routes ...*Route) *Config {
	return &Config{routes: routes}
}

// NewAppConfig creates a route configuration owned by a named application.
// The application name enables namespace registration and the current-app
// tie-break during reverse lookup.
func NewAppConfig(appName string, routes ...*Route) *Config {
	return &Config{appName: appName, routes: routes}
}

// AppName returns the owning application name (empty if none).
func (c *Config) AppName() string { return c.appName }

// Routes returns the declared routes in declaration order.
// The returned slice must not be modified.
func (c *Config) Routes() []*Route { return c.routes }

// Route is one entry in a configuration: either an endpoint binding a
// pattern to a handler, or an include binding a pattern prefix to a nested
// configuration. Exactly one of the two forms is set; the constructors
// enforce the variant, so no call site probes for it.
//
// Routes are immutable once handed to NewConfig. The fluent setters are only
// valid during declaration, in the configuration-loading phase.
type Route struct {
	pattern  pattern.Pattern
	handler  Handler // endpoint form
	include  *Config // include form
	defaults map[string]any
	name     string // endpoint only
	ns       string // include only
	locale   bool   // include introduced by LocalePrefix
}

// Path declares an endpoint route with the structured template syntax.
// Panics on a malformed template or unknown converter; route declarations
// are evaluated at startup and configuration errors must fail fast.
//
// Example:
//
//	dispatch.Path("articles/<int:year>/", viewYear).Name("year_archive")
func Path(template string, handler Handler) *Route {
	return Endpoint(pattern.MustCompileRoute(template, true, nil), handler)
}

// RegexPath declares an endpoint route with the regex syntax.
// Panics on an invalid expression.
//
// Example:
//
//	dispatch.RegexPath(`^articles/(?P<year>[0-9]{4})/$`, viewYear).Name("year_archive")
func RegexPath(expr string, handler Handler) *Route {
	return Endpoint(pattern.MustCompileRegex(expr, true), handler)
}

// Include declares a branch route: the template matches a path prefix and
// the remainder is resolved by the nested configuration.
//
// Panics on a malformed template, or when the nested configuration contains
// a LocalePrefix subtree (language prefixes are only valid at the root).
//
// Example:
//
//	dispatch.Include("blog/", blogConf).Namespace("blog")
func Include(template string, cfg *Config) *Route {
	return Subtree(pattern.MustCompileRoute(template, false, nil), cfg)
}

// RegexInclude is Include with the regex syntax.
func RegexInclude(expr string, cfg *Config) *Route {
	return Subtree(pattern.MustCompileRegex(expr, false), cfg)
}

// Endpoint declares an endpoint route from an already compiled pattern.
// Use this when compiling against a custom converter registry.
func Endpoint(p pattern.Pattern, handler Handler) *Route {
	if handler == nil {
		panic("dispatch: endpoint route requires a handler")
	}
	if !p.IsEndpoint() {
		panic("dispatch: endpoint route requires an endpoint pattern")
	}
	return &Route{pattern: p, handler: handler}
}

// Subtree declares a branch route from an already compiled pattern.
func Subtree(p pattern.Pattern, cfg *Config) *Route {
	if cfg == nil {
		panic("dispatch: include route requires a configuration")
	}
	if p.IsEndpoint() {
		panic("dispatch: include route requires a prefix pattern")
	}
	for _, child := range cfg.routes {
		if child.locale {
			panic("dispatch: a language-prefixed subtree cannot be nested inside an include")
		}
	}
	// An application-owned config registers under its app name unless
	// Namespace overrides it.
	return &Route{pattern: p, include: cfg, ns: cfg.appName}
}

// Name assigns the symbolic name used for reverse lookup.
// Only endpoint routes carry names; namespaces name subtrees.
func (r *Route) Name(name string) *Route {
	if r.include != nil {
		panic("dispatch: Name applies to endpoint routes; use Namespace for includes")
	}
	r.name = name
	return r
}

// Defaults attaches static extra kwargs merged into every match of this
// route. On a key collision with captured values the static value wins:
// captured args must not silently override static configuration.
func (r *Route) Defaults(kwargs map[string]any) *Route {
	r.defaults = make(map[string]any, len(kwargs))
	maps.Copy(r.defaults, kwargs)
	return r
}

// Namespace sets the instance namespace for an included subtree. The nested
// configuration must be application-owned (NewAppConfig); namespacing an
// anonymous configuration is a configuration error.
//
// Example (two instances of one app):
//
//	dispatch.Include("blog/", blogConf),                      // namespace "blog"
//	dispatch.Include("blog2/", blogConf).Namespace("blog2"),  // second instance
func (r *Route) Namespace(ns string) *Route {
	if r.include == nil {
		panic("dispatch: Namespace applies to include routes")
	}
	if r.include.appName == "" {
		panic("dispatch: Namespace requires an application-owned configuration (NewAppConfig)")
	}
	r.ns = ns
	return r
}

// Pattern returns the route's compiled pattern.
func (r *Route) Pattern() pattern.Pattern { return r.pattern }

// Handler returns the bound handler (nil for include routes).
func (r *Route) Handler() Handler { return r.handler }

// isEndpoint reports the variant without exposing it.
func (r *Route) isEndpoint() bool { return r.include == nil }
