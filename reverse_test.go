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
)

func blogConf() *Config {
	return NewAppConfig("blog",
		Path("", "blog_index").Name("index"),
		Path("<slug:slug>/", "blog_detail").Name("detail"),
	)
}

func TestReverse_Namespaced(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Include("blog/", blogConf()),
	))

	url, err := r.Reverse(context.Background(), "blog:detail", Kwargs(map[string]any{"slug": "hello"}))
	require.NoError(t, err)
	assert.Equal(t, "/blog/hello/", url)

	url, err = r.Reverse(context.Background(), "blog:index")
	require.NoError(t, err)
	assert.Equal(t, "/blog/", url)
}

func TestReverse_PositionalArgs(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("articles/<int:year>/<int:month>/", "archive").Name("archive"),
	))

	url, err := r.Reverse(context.Background(), "archive", Args(2023, 7))
	require.NoError(t, err)
	assert.Equal(t, "/articles/2023/7/", url)

	// Wrong arity admits no candidate.
	_, err = r.Reverse(context.Background(), "archive", Args(2023))
	assert.ErrorIs(t, err, ErrNoReverseMatch)
}

func TestReverse_ArgsAndKwargsExclusive(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("a/<int:x>/", "a").Name("a"),
	))

	_, err := r.Reverse(context.Background(), "a", Args(1), Kwargs(map[string]any{"x": 1}))
	assert.ErrorIs(t, err, ErrArgsAndKwargs)
}

func TestReverse_ValueMismatch(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("articles/<int:year>/", "archive").Name("archive"),
	))

	// "abc" does not re-match the int character class, so the candidate is
	// rejected and the lookup fails.
	_, err := r.Reverse(context.Background(), "archive", Kwargs(map[string]any{"year": "abc"}))
	require.ErrorIs(t, err, ErrNoReverseMatch)

	var nrm *NoReverseMatchError
	require.ErrorAs(t, err, &nrm)
	assert.Equal(t, 1, nrm.Candidates)
}

func TestReverse_DuplicateNameTriesEachInOrder(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("people/<int:id>/", "by_id").Name("person"),
		Path("people/<slug:handle>/", "by_handle").Name("person"),
	))

	url, err := r.Reverse(context.Background(), "person", Kwargs(map[string]any{"id": 12}))
	require.NoError(t, err)
	assert.Equal(t, "/people/12/", url)

	url, err = r.Reverse(context.Background(), "person", Kwargs(map[string]any{"handle": "ana"}))
	require.NoError(t, err)
	assert.Equal(t, "/people/ana/", url)
}

func TestReverse_CurrentAppPicksInstance(t *testing.T) {
	t.Parallel()

	conf := blogConf()
	r := New(NewConfig(
		Include("blog/", conf),
		Include("blog2/", conf).Namespace("blog2"),
	))

	// Lookup by application name: the first registered instance wins unless
	// the current-app hint names another.
	url, err := r.Reverse(context.Background(), "blog:index")
	require.NoError(t, err)
	assert.Equal(t, "/blog/", url)

	url, err = r.Reverse(context.Background(), "blog:index", CurrentApp("blog2"))
	require.NoError(t, err)
	assert.Equal(t, "/blog2/", url)

	// An unknown hint falls back to the first instance.
	url, err = r.Reverse(context.Background(), "blog:index", CurrentApp("blog9"))
	require.NoError(t, err)
	assert.Equal(t, "/blog/", url)
}

func TestReverse_UnregisteredNamespace(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Include("blog/", blogConf()),
	))

	_, err := r.Reverse(context.Background(), "shop:index")
	require.ErrorIs(t, err, ErrNoReverseMatch)

	var nrm *NoReverseMatchError
	require.ErrorAs(t, err, &nrm)
	assert.Equal(t, "shop", nrm.BadSegment)
}

func TestReverse_DefaultsFillMissingParams(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("feed/<str:format>/", "feed").
			Name("feed").
			Defaults(map[string]any{"format": "rss"}),
	))

	url, err := r.Reverse(context.Background(), "feed")
	require.NoError(t, err)
	assert.Equal(t, "/feed/rss/", url)

	// Extra kwargs must agree with the declared defaults.
	_, err = r.Reverse(context.Background(), "feed", Kwargs(map[string]any{"format": "rss", "page": 2}))
	assert.ErrorIs(t, err, ErrNoReverseMatch)
}

func TestReverse_ScriptPrefix(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		Path("about/", "about").Name("about"),
	))

	ctx := WithScriptPrefix(context.Background(), "/myapp")
	url, err := r.Reverse(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "/myapp/about/", url)
}

func TestReverse_EncodesNonASCII(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		RegexPath(`^tag/(?P<tag>[^/]+)/$`, "tag").Name("tag"),
	))

	url, err := r.Reverse(context.Background(), "tag", Kwargs(map[string]any{"tag": "café tea"}))
	require.NoError(t, err)
	assert.Equal(t, "/tag/caf%C3%A9%20tea/", url)
}

func TestReverseHandler(t *testing.T) {
	t.Parallel()

	about := func() {}
	contact := func() {}
	r := New(NewConfig(
		Path("about/", about).Name("about"),
		Path("contact/", contact),
	))

	url, err := r.ReverseHandler(context.Background(), about)
	require.NoError(t, err)
	assert.Equal(t, "/about/", url)

	// Unnamed routes are still reachable by handler identity.
	url, err = r.ReverseHandler(context.Background(), contact)
	require.NoError(t, err)
	assert.Equal(t, "/contact/", url)

	_, err = r.ReverseHandler(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrNoReverseMatch)
}

func TestReverse_ForwardOnlyRegexHasNoCandidates(t *testing.T) {
	t.Parallel()

	r := New(NewConfig(
		RegexPath(`^either/(a|b)/$`, "either").Name("either"),
	))

	// Alternation cannot be rendered, so the name resolves forward but not
	// backward.
	_, err := r.Resolve(context.Background(), "/either/a/")
	require.NoError(t, err)

	_, err = r.Reverse(context.Background(), "either", Args("a"))
	assert.ErrorIs(t, err, ErrNoReverseMatch)
}
