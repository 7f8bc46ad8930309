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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that no route matched an incoming path.
	// Returned errors carry path context; test with errors.Is.
	ErrNotFound = errors.New("no route matched")

	// ErrNoReverseMatch indicates that reverse lookup found no registered
	// name, an unregistered namespace segment, or no candidate that rendered
	// successfully with the supplied arguments.
	ErrNoReverseMatch = errors.New("no reverse match")

	// ErrArgsAndKwargs indicates that a reverse lookup supplied both
	// positional and keyword arguments. Exactly one form may be used.
	ErrArgsAndKwargs = errors.New("cannot mix positional args and kwargs in reverse lookup")

	// ErrNoDefaultConfig indicates that a package-level operation ran without
	// an active configuration: neither WithConfig on the context nor
	// SetDefault was used.
	ErrNoDefaultConfig = errors.New("no active URL configuration")
)

// NotFoundError reports a failed resolution. Tried holds the route
// descriptions attempted at every level of the tree, in declaration order,
// to support debugging output. Resolution itself never logs.
type NotFoundError struct {
	Path  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route matched path %q (tried %d patterns)", e.Path, len(e.Tried))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NoReverseMatchError reports a failed reverse lookup.
type NoReverseMatchError struct {
	Name       string   // final route name (or handler description)
	Namespace  []string // namespace segments resolved before the failure
	BadSegment string   // unregistered namespace segment, if that was the cause
	Candidates int      // same-named candidates that failed to render
}

func (e *NoReverseMatchError) Error() string {
	if e.BadSegment != "" {
		if len(e.Namespace) > 0 {
			return fmt.Sprintf("%q is not a registered namespace inside %q", e.BadSegment, strings.Join(e.Namespace, ":"))
		}
		return fmt.Sprintf("%q is not a registered namespace", e.BadSegment)
	}
	if e.Candidates > 0 {
		return fmt.Sprintf("reverse for %q failed: %d candidate(s) did not render with the supplied arguments", e.Name, e.Candidates)
	}
	return fmt.Sprintf("reverse for %q not found: no route is registered under that name", e.Name)
}

func (e *NoReverseMatchError) Unwrap() error { return ErrNoReverseMatch }
