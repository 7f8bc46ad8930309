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

// DiagnosticEvent represents a configuration diagnostic or anomaly found
// while building a resolver. These are informational: the resolver functions
// correctly whether they are collected or not, and resolution itself never
// emits anything.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRouteShadowed reports an endpoint identical to an earlier
	// declaration; first-match-wins ordering makes it unreachable.
	DiagRouteShadowed DiagnosticKind = "route_shadowed"

	// DiagDuplicateName reports a route name declared more than once at the
	// same level. Legal (reverse tries each in order) but often a mistake.
	DiagDuplicateName DiagnosticKind = "route_name_duplicate"

	// DiagHighParamCount reports a route capturing an unusually high number
	// of parameters.
	DiagHighParamCount DiagnosticKind = "route_param_count_high"
)

// DiagnosticHandler receives diagnostic events from resolver construction.
// Implementations may log, emit metrics, or ignore them.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := dispatch.DiagnosticHandlerFunc(func(e dispatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := dispatch.New(conf, dispatch.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}
