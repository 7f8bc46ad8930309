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

// Option configures a resolver built with New.
type Option func(*Resolver)

// WithDiagnostics sets a diagnostic handler receiving configuration events
// (shadowed routes, duplicate names, high parameter counts) while the
// resolver is built.
//
// Example:
//
//	handler := dispatch.DiagnosticHandlerFunc(func(e dispatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind)
//	})
//	r := dispatch.New(conf, dispatch.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Resolver) {
		r.diagnostics = handler
	}
}

// WithObservability attaches a recorder whose hooks run around Resolve and
// Reverse calls. Use NewOTelRecorder for the OpenTelemetry implementation.
//
// Example:
//
//	rec, err := dispatch.NewOTelRecorder()
//	if err != nil {
//	    return err
//	}
//	r := dispatch.New(conf, dispatch.WithObservability(rec))
func WithObservability(rec ObservabilityRecorder) Option {
	return func(r *Resolver) {
		r.recorder = rec
	}
}
