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
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestScriptPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", ScriptPrefix(context.Background()))

	ctx := WithScriptPrefix(context.Background(), "/app")
	assert.Equal(t, "/app/", ScriptPrefix(ctx))

	ctx = WithScriptPrefix(context.Background(), "/app/")
	assert.Equal(t, "/app/", ScriptPrefix(ctx))

	// Reverting is returning to the parent context.
	parent := context.Background()
	child := WithScriptPrefix(parent, "/app")
	assert.Equal(t, "/app/", ScriptPrefix(child))
	assert.Equal(t, "/", ScriptPrefix(parent))
}

func TestActiveLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.Und, ActiveLanguage(context.Background()))

	ctx := WithLanguage(context.Background(), language.French)
	assert.Equal(t, language.French, ActiveLanguage(ctx))
}

func TestWithConfig_OverridesDefault(t *testing.T) {
	t.Parallel()

	conf := NewConfig(Path("here/", "h").Name("here"))
	ctx := WithConfig(context.Background(), conf)

	assert.Same(t, conf, ActiveConfig(ctx))

	m, err := Resolve(ctx, "/here/")
	require.NoError(t, err)
	assert.Equal(t, "h", m.Handler)

	url, err := Reverse(ctx, "here")
	require.NoError(t, err)
	assert.Equal(t, "/here/", url)

	assert.True(t, IsValidPath(ctx, "/here/"))
	assert.False(t, IsValidPath(ctx, "/elsewhere/"))
}

func TestSetDefault(t *testing.T) {
	// Mutates process-wide state; not parallel.
	_, err := Resolve(context.Background(), "/anything/")
	assert.ErrorIs(t, err, ErrNoDefaultConfig)

	conf := NewConfig(Path("home/", "home").Name("home"))
	SetDefault(conf)
	t.Cleanup(func() { SetDefault(nil) })

	m, err := Resolve(context.Background(), "/home/")
	require.NoError(t, err)
	assert.Equal(t, "home", m.Handler)

	// A context override still wins over the default.
	other := NewConfig(Path("other/", "o"))
	_, err = Resolve(WithConfig(context.Background(), other), "/home/")
	assert.ErrorIs(t, err, ErrNotFound)
}
