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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_MemoizesPerConfig(t *testing.T) {
	t.Parallel()

	conf := NewConfig(Path("a/", "a"))
	other := NewConfig(Path("a/", "a"))

	assert.Same(t, Get(conf), Get(conf))

	// Memoization is keyed by configuration identity, not by content.
	assert.NotSame(t, Get(conf), Get(other))
}

func TestClearCaches_DropsMemoizedResolvers(t *testing.T) {
	// Clears the process-wide cache; not parallel, identity assertions in
	// other tests must not observe the eviction.
	conf := NewConfig(Path("a/", "a"))
	before := Get(conf)

	ClearCaches()
	after := Get(conf)

	assert.NotSame(t, before, after)

	// The evicted resolver keeps working for holders of the old reference.
	_, err := before.Resolve(context.Background(), "/a/")
	assert.NoError(t, err)
}
