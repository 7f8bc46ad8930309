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
	"reflect"
	"strings"
	"sync"

	"rivaas.dev/dispatch/pattern"
)

// Resolver matches incoming paths against an ordered route configuration and
// reverses symbolic names back into paths.
//
// The route list is immutable; the resolver only mutates its lazily built
// per-language lookup indices, guarded by a mutex. After an index is built it
// is never modified, so concurrent readers never observe a partially built
// index.
//
// Resolution semantics:
//   - Routes are tried in declaration order; the first match wins. Not
//     longest-match, not best-match: declaration order is significant.
//   - Endpoint patterns must consume the remaining path exactly.
//   - A non-matching subtree behaves like a non-matching sibling; the walk
//     continues with the next route at the same level.
type Resolver struct {
	cfg         *Config
	routes      []*Route
	recorder    ObservabilityRecorder
	diagnostics DiagnosticHandler

	mu      sync.Mutex
	indices map[string]*indexSet // keyed by active language tag
}

// New builds a resolver for the given configuration. Most callers use the
// package-level Resolve/Reverse functions or Get, which memoize resolvers per
// configuration; New is for attaching per-instance options such as
// WithObservability.
func New(cfg *Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:     cfg,
		routes:  cfg.routes,
		indices: make(map[string]*indexSet),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.checkConfig()
	return r
}

// Match is the result of a successful resolution. It is created per call and
// never retained by the resolver.
type Match struct {
	Handler    Handler
	Args       []any          // positional captures (regex patterns only)
	Kwargs     map[string]any // named captures merged with static defaults
	Route      string         // the joined route template that matched
	URLName    string         // the endpoint's declared name (may be empty)
	AppNames   []string       // application names, root to leaf
	Namespaces []string       // namespace instances, root to leaf
}

// Namespace returns the namespace trail joined with ":".
func (m *Match) Namespace() string { return strings.Join(m.Namespaces, ":") }

// AppName returns the application trail joined with ":".
func (m *Match) AppName() string { return strings.Join(m.AppNames, ":") }

// ViewName returns the fully qualified reverse name for this match
// ("ns1:ns2:name"), or "" when the matched endpoint is unnamed.
func (m *Match) ViewName() string {
	if m.URLName == "" {
		return ""
	}
	if len(m.Namespaces) == 0 {
		return m.URLName
	}
	return m.Namespace() + ":" + m.URLName
}

// Resolve finds the first route matching path. The path must start with "/"
// (the script prefix is the caller's concern and must already be stripped).
//
// On failure the returned error wraps ErrNotFound and, as a *NotFoundError,
// carries the list of tried patterns for diagnostics. Resolve never logs.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Match, error) {
	var state any
	if r.recorder != nil {
		ctx, state = r.recorder.OnResolveStart(ctx, path)
	}

	m, err := r.doResolve(ctx, path)

	if r.recorder != nil {
		r.recorder.OnResolveEnd(ctx, state, m, err)
	}
	return m, err
}

func (r *Resolver) doResolve(ctx context.Context, path string) (*Match, error) {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return nil, &NotFoundError{Path: path}
	}

	m, tried, ok := r.walk(ctx, rest)
	if !ok {
		return nil, &NotFoundError{Path: path, Tried: tried}
	}
	return m, nil
}

// walk tries each route in declaration order against the remaining path.
func (r *Resolver) walk(ctx context.Context, path string) (*Match, []string, bool) {
	var tried []string

	for _, rt := range r.routes {
		rctx := ctx
		if rt.locale {
			rctx = activateFromPath(ctx, rt, path)
		}

		caps, ok := rt.pattern.Match(rctx, path)
		if !ok {
			tried = append(tried, rt.pattern.Route(rctx))
			continue
		}

		if rt.isEndpoint() {
			// Endpoint patterns must match to the end of the path.
			if caps.Rest != "" {
				tried = append(tried, rt.pattern.Route(rctx))
				continue
			}

			kwargs := mergeCaptures(caps.Kwargs, rt.defaults)
			args := caps.Args
			if len(kwargs) > 0 {
				args = nil
			}
			return &Match{
				Handler: rt.handler,
				Args:    args,
				Kwargs:  kwargs,
				Route:   rt.pattern.Route(rctx),
				URLName: rt.name,
			}, tried, true
		}

		prefix := rt.pattern.Route(rctx)
		sub, subTried, ok := Get(rt.include).walk(rctx, caps.Rest)
		if !ok {
			// The subtree failing is this route failing; carry on with the
			// next sibling. No backtracking into the consumed prefix.
			for _, t := range subTried {
				tried = append(tried, prefix+t)
			}
			continue
		}

		outer := mergeCaptures(caps.Kwargs, rt.defaults)
		kwargs := mergeInner(outer, sub.Kwargs)
		var args []any
		if len(kwargs) == 0 {
			args = append(append([]any(nil), caps.Args...), sub.Args...)
		}

		m := &Match{
			Handler: sub.Handler,
			Args:    args,
			Kwargs:  kwargs,
			Route:   prefix + sub.Route,
			URLName: sub.URLName,
		}
		if app := rt.include.appName; app != "" {
			m.AppNames = append([]string{app}, sub.AppNames...)
		} else {
			m.AppNames = sub.AppNames
		}
		if rt.ns != "" {
			m.Namespaces = append([]string{rt.ns}, sub.Namespaces...)
		} else {
			m.Namespaces = sub.Namespaces
		}
		return m, tried, true
	}

	return nil, tried, false
}

// mergeCaptures merges captured kwargs with a route's static defaults.
// On a key collision the static value wins: captured args must not silently
// override static configuration.
func mergeCaptures(captured, defaults map[string]any) map[string]any {
	if len(captured) == 0 && len(defaults) == 0 {
		return nil
	}
	out := make(map[string]any, len(captured)+len(defaults))
	for k, v := range captured {
		out[k] = v
	}
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// mergeInner layers an inner match's kwargs over the outer level's.
// The inner level is more specific and wins on collision.
func mergeInner(outer, inner map[string]any) map[string]any {
	if len(outer) == 0 {
		return inner
	}
	out := make(map[string]any, len(outer)+len(inner))
	for k, v := range outer {
		out[k] = v
	}
	for k, v := range inner {
		out[k] = v
	}
	return out
}

// indexSet holds the lazily built lookup structures for one active language:
// reverse candidates by name and by handler identity, namespace registrations
// and application instance lists. Immutable once built.
type indexSet struct {
	reverse    map[string][]candidate
	handlers   map[uintptr][]candidate
	namespaces map[string]nsEntry
	apps       map[string][]string
}

// candidate is one renderable form of a named route, with any prefixes from
// enclosing non-namespaced includes already folded in.
type candidate struct {
	poss     pattern.Possibility
	defaults map[string]any
}

// nsEntry maps a namespace instance to its prefix fragment and subtree.
type nsEntry struct {
	prefix pattern.Possibility
	child  *Resolver
}

// indexFor returns the lookup index for the context's active language,
// building it on first use. Concurrent first access is serialized by the
// resolver mutex; a published index is never mutated.
func (r *Resolver) indexFor(ctx context.Context) *indexSet {
	lang := ActiveLanguage(ctx).String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indices[lang]; ok {
		return idx
	}
	idx := r.buildIndex(ctx)
	r.indices[lang] = idx
	return idx
}

func (r *Resolver) buildIndex(ctx context.Context) *indexSet {
	idx := &indexSet{
		reverse:    make(map[string][]candidate),
		handlers:   make(map[uintptr][]candidate),
		namespaces: make(map[string]nsEntry),
		apps:       make(map[string][]string),
	}

	for _, rt := range r.routes {
		possibilities := rt.pattern.Possibilities(ctx)

		switch {
		case rt.isEndpoint():
			cands := make([]candidate, 0, len(possibilities))
			for _, poss := range possibilities {
				cands = append(cands, candidate{poss: poss, defaults: rt.defaults})
			}
			if len(cands) == 0 {
				continue // forward-match only
			}
			if rt.name != "" {
				idx.reverse[rt.name] = append(idx.reverse[rt.name], cands...)
			}
			if key, ok := handlerKey(rt.handler); ok {
				idx.handlers[key] = append(idx.handlers[key], cands...)
			}

		case rt.ns == "":
			// Anonymous include: fold the subtree's candidates into this
			// level with the branch prefix prepended.
			if len(possibilities) == 0 {
				continue
			}
			prefix := possibilities[0]
			sub := Get(rt.include).indexFor(ctx)

			for name, cands := range sub.reverse {
				idx.reverse[name] = append(idx.reverse[name], prefixCandidates(prefix, rt.defaults, cands)...)
			}
			for key, cands := range sub.handlers {
				idx.handlers[key] = append(idx.handlers[key], prefixCandidates(prefix, rt.defaults, cands)...)
			}
			for ns, entry := range sub.namespaces {
				if _, exists := idx.namespaces[ns]; !exists {
					idx.namespaces[ns] = nsEntry{
						prefix: pattern.Concat(prefix, entry.prefix),
						child:  entry.child,
					}
				}
			}
			for app, namespaces := range sub.apps {
				idx.apps[app] = append(idx.apps[app], namespaces...)
			}

		default:
			// Namespaced include: registered for the reverse walk, not
			// flattened.
			if len(possibilities) == 0 {
				continue
			}
			if _, exists := idx.namespaces[rt.ns]; !exists {
				idx.namespaces[rt.ns] = nsEntry{prefix: possibilities[0], child: Get(rt.include)}
			}
			if app := rt.include.appName; app != "" {
				idx.apps[app] = append(idx.apps[app], rt.ns)
			}
		}
	}

	return idx
}

func prefixCandidates(prefix pattern.Possibility, defaults map[string]any, cands []candidate) []candidate {
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, candidate{
			poss:     pattern.Concat(prefix, c.poss),
			defaults: mergeInner(defaults, c.defaults),
		})
	}
	return out
}

// handlerKey derives an identity key for reverse-by-handler lookup.
// Works for functions, pointers and other reference kinds; value types are
// not indexable and must be reversed by name.
func handlerKey(h Handler) (uintptr, bool) {
	if h == nil {
		return 0, false
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return v.Pointer(), true
	default:
		return 0, false
	}
}

// checkConfig runs declaration-order sanity checks and reports findings to
// the diagnostic handler, if any. These are advisory; the resolver works the
// same whether they are collected or not.
func (r *Resolver) checkConfig() {
	if r.diagnostics == nil {
		return
	}

	ctx := context.Background()
	seenRoutes := make(map[string]bool)
	seenNames := make(map[string]bool)

	for _, rt := range r.routes {
		route := rt.pattern.Route(ctx)
		if rt.isEndpoint() && seenRoutes[route] {
			r.diagnostics.OnDiagnostic(DiagnosticEvent{
				Kind:    DiagRouteShadowed,
				Message: "route is shadowed by an earlier identical declaration",
				Fields:  map[string]any{"route": route},
			})
		}
		if rt.isEndpoint() {
			seenRoutes[route] = true
		}

		if rt.name != "" {
			if seenNames[rt.name] {
				r.diagnostics.OnDiagnostic(DiagnosticEvent{
					Kind:    DiagDuplicateName,
					Message: "route name is declared more than once at this level",
					Fields:  map[string]any{"name": rt.name},
				})
			}
			seenNames[rt.name] = true
		}

		if n := len(rt.pattern.Converters()); n > 8 {
			r.diagnostics.OnDiagnostic(DiagnosticEvent{
				Kind:    DiagHighParamCount,
				Message: "route captures an unusually high number of parameters",
				Fields:  map[string]any{"route": route, "params": n},
			})
		}
	}
}
