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
	"runtime"
	"slices"
	"strings"

	"rivaas.dev/dispatch/pattern"
)

// ReverseOption configures a reverse lookup.
type ReverseOption func(*reverseOpts)

type reverseOpts struct {
	args       []any
	kwargs     map[string]any
	argsSet    bool
	kwargsSet  bool
	currentApp string
}

// Args supplies positional arguments, matched to a candidate's parameters in
// order. Mutually exclusive with Kwargs.
func Args(args ...any) ReverseOption {
	return func(o *reverseOpts) {
		o.args = args
		o.argsSet = true
	}
}

// Kwargs supplies keyword arguments. Mutually exclusive with Args.
func Kwargs(kwargs map[string]any) ReverseOption {
	return func(o *reverseOpts) {
		o.kwargs = kwargs
		o.kwargsSet = true
	}
}

// CurrentApp hints which instance of an application should win when an
// application name is registered under several namespaces. The hint may be a
// ":"-separated instance path mirroring the lookup name.
func CurrentApp(app string) ReverseOption {
	return func(o *reverseOpts) {
		o.currentApp = app
	}
}

// Reverse reconstructs the canonical path for a symbolic route name.
//
// The name may be namespaced ("blog:detail"); each namespace segment selects
// a registered subtree. When a segment names an application with several
// registered instances, the CurrentApp hint picks the matching instance,
// falling back to the first registered one.
//
// The result is prefixed with the context's script prefix and IRI-encoded
// for wire transmission. Failures wrap ErrNoReverseMatch.
func (r *Resolver) Reverse(ctx context.Context, name string, opts ...ReverseOption) (string, error) {
	o := applyReverseOpts(opts)
	path, err := r.reverseName(ctx, name, o)
	if r.recorder != nil {
		r.recorder.OnReverse(ctx, name, err)
	}
	return path, err
}

// ReverseHandler reverses by handler reference instead of name, using
// function-pointer identity. Only handlers reachable without crossing a
// namespace boundary are found; namespaced subtrees are addressed by name.
func (r *Resolver) ReverseHandler(ctx context.Context, handler Handler, opts ...ReverseOption) (string, error) {
	o := applyReverseOpts(opts)

	var path string
	key, ok := handlerKey(handler)
	err := error(&NoReverseMatchError{Name: handlerName(handler)})
	if ok {
		idx := r.indexFor(ctx)
		path, err = renderCandidates(ctx, handlerName(handler), nil, idx.handlers[key], o)
	}

	if r.recorder != nil {
		r.recorder.OnReverse(ctx, handlerName(handler), err)
	}
	return path, err
}

func applyReverseOpts(opts []ReverseOption) *reverseOpts {
	o := &reverseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (r *Resolver) reverseName(ctx context.Context, name string, o *reverseOpts) (string, error) {
	if o.argsSet && o.kwargsSet {
		return "", ErrArgsAndKwargs
	}

	segments := strings.Split(name, ":")
	leaf := segments[len(segments)-1]
	nsPath := segments[:len(segments)-1]

	var currentPath []string
	if o.currentApp != "" {
		currentPath = strings.Split(o.currentApp, ":")
	}

	resolver := r
	var (
		resolved []string
		prefix   pattern.Possibility
	)

	for i, ns := range nsPath {
		var current string
		if i < len(currentPath) {
			current = currentPath[i]
		}

		idx := resolver.indexFor(ctx)

		// The segment may be an application name: pick the instance the
		// current-app hint asks for, defaulting to the first registered one.
		if instances, ok := idx.apps[ns]; ok && len(instances) > 0 {
			switch {
			case current != "" && slices.Contains(instances, current):
				ns = current
			case !slices.Contains(instances, ns):
				ns = instances[0]
			}
		}

		// Once the walked instance diverges from the hint, the rest of the
		// hint no longer applies.
		if ns != current {
			currentPath = nil
		}

		entry, ok := idx.namespaces[ns]
		if !ok {
			return "", &NoReverseMatchError{Name: leaf, Namespace: resolved, BadSegment: ns}
		}

		resolved = append(resolved, ns)
		prefix = pattern.Concat(prefix, entry.prefix)
		resolver = entry.child
	}

	idx := resolver.indexFor(ctx)
	path, err := renderCandidates(ctx, leaf, &prefix, idx.reverse[leaf], o)
	if err != nil {
		if nrm, ok := err.(*NoReverseMatchError); ok {
			nrm.Namespace = resolved
		}
		return "", err
	}
	return path, nil
}

// renderCandidates tries each candidate in declaration order and returns the
// first that renders with the supplied arguments. A render failure is a
// control decision (try the next), surfacing only when every candidate is
// exhausted.
func renderCandidates(ctx context.Context, name string, prefix *pattern.Possibility, cands []candidate, o *reverseOpts) (string, error) {
	if len(cands) == 0 {
		return "", &NoReverseMatchError{Name: name}
	}

	for _, cand := range cands {
		full := cand.poss
		if prefix != nil {
			full = pattern.Concat(*prefix, cand.poss)
		}
		params := full.ParamNames()

		values, ok := candidateValues(params, cand.defaults, o)
		if !ok {
			continue
		}

		rendered, err := full.Render(values)
		if err != nil {
			continue
		}
		return encodeIRI(ScriptPrefix(ctx) + rendered), nil
	}

	return "", &NoReverseMatchError{Name: name, Candidates: len(cands)}
}

// candidateValues decides whether a candidate admits the supplied arguments
// and, if so, builds the parameter value map for rendering.
func candidateValues(params []string, defaults map[string]any, o *reverseOpts) (map[string]any, bool) {
	if o.argsSet {
		if len(o.args) != len(params) {
			return nil, false
		}
		values := make(map[string]any, len(params))
		for i, p := range params {
			values[p] = o.args[i]
		}
		return values, true
	}

	// Keyword mode (also the no-arguments case). Extra kwargs must agree
	// with the candidate's static defaults; missing parameters may be
	// supplied by defaults.
	for k, v := range o.kwargs {
		if slices.Contains(params, k) {
			continue
		}
		dv, ok := defaults[k]
		if !ok || !reflect.DeepEqual(dv, v) {
			return nil, false
		}
	}

	values := make(map[string]any, len(params))
	for _, p := range params {
		if v, ok := o.kwargs[p]; ok {
			values[p] = v
			continue
		}
		if v, ok := defaults[p]; ok {
			values[p] = v
			continue
		}
		return nil, false
	}
	return values, true
}

func handlerName(h Handler) string {
	if h == nil {
		return "<nil>"
	}
	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Func {
		if fn := runtimeFuncName(v); fn != "" {
			return fn
		}
	}
	return reflect.TypeOf(h).String()
}

func runtimeFuncName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

// encodeIRI percent-encodes a path for wire transmission, leaving RFC 3987
// reserved and unreserved characters intact so already-meaningful
// delimiters survive.
func encodeIRI(s string) string {
	const safe = "/#%[]=:;$&()+,!?*@'~-._"

	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || strings.IndexByte(safe, c) >= 0 {
			buf.WriteByte(c)
			continue
		}
		buf.WriteByte('%')
		buf.WriteByte(upperhex[c>>4])
		buf.WriteByte(upperhex[c&0x0f])
	}
	return buf.String()
}

const upperhex = "0123456789ABCDEF"
