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

package convert

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntConverter(t *testing.T) {
	t.Parallel()

	c := IntConverter{}

	v, err := c.Parse("2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, v)

	_, err = c.Parse("abc")
	assert.ErrorIs(t, err, ErrCannotParse)

	s, err := c.Format(2023)
	require.NoError(t, err)
	assert.Equal(t, "2023", s)

	s, err = c.Format(int64(7))
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	s, err = c.Format("42")
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	_, err = c.Format("abc")
	assert.ErrorIs(t, err, ErrCannotFormat)

	_, err = c.Format(3.14)
	assert.ErrorIs(t, err, ErrCannotFormat)
}

func TestUUIDConverter(t *testing.T) {
	t.Parallel()

	c := UUIDConverter{}
	id := uuid.MustParse("075194d3-6885-417e-a8a8-6c931e272f00")

	v, err := c.Parse("075194d3-6885-417e-a8a8-6c931e272f00")
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = c.Parse("not-a-uuid")
	assert.ErrorIs(t, err, ErrCannotParse)

	s, err := c.Format(id)
	require.NoError(t, err)
	assert.Equal(t, "075194d3-6885-417e-a8a8-6c931e272f00", s)

	// String input is normalized to the canonical lowercase form.
	s, err = c.Format("075194D3-6885-417E-A8A8-6C931E272F00")
	require.NoError(t, err)
	assert.Equal(t, "075194d3-6885-417e-a8a8-6c931e272f00", s)

	_, err = c.Format(42)
	assert.ErrorIs(t, err, ErrCannotFormat)
}

func TestStringConverters(t *testing.T) {
	t.Parallel()

	for name, c := range map[string]Converter{
		"str":  StringConverter{},
		"slug": SlugConverter{},
		"path": PathConverter{},
	} {
		v, err := c.Parse("hello-world")
		require.NoError(t, err, name)
		assert.Equal(t, "hello-world", v, name)

		s, err := c.Format("hello-world")
		require.NoError(t, err, name)
		assert.Equal(t, "hello-world", s, name)

		s, err = c.Format(42)
		require.NoError(t, err, name)
		assert.Equal(t, "42", s, name)

		_, err = c.Format(struct{}{})
		assert.ErrorIs(t, err, ErrCannotFormat, name)
	}
}

type fourDigitYear struct{}

func (fourDigitYear) Regex() string { return "[0-9]{4}" }

func (fourDigitYear) Parse(s string) (any, error) { return s, nil }

func (fourDigitYear) Format(v any) (string, error) { return formatString(v) }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	for _, name := range []string{"int", "str", "slug", "uuid", "path"} {
		_, err := r.Get(name)
		assert.NoError(t, err, name)
	}

	_, err := r.Get("yyyy")
	assert.ErrorIs(t, err, ErrUnknownConverter)

	r.Register("yyyy", fourDigitYear{})
	c, err := r.Get("yyyy")
	require.NoError(t, err)
	assert.Equal(t, "[0-9]{4}", c.Regex())

	assert.Contains(t, r.Names(), "yyyy")
}

type badClassConverter struct{ class string }

func (c badClassConverter) Regex() string { return c.class }

func (badClassConverter) Parse(s string) (any, error) { return s, nil }

func (badClassConverter) Format(v any) (string, error) { return formatString(v) }

func TestRegistry_RejectsInvalidClasses(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	assert.Panics(t, func() { r.Register("broken", badClassConverter{class: "["}) })
	assert.Panics(t, func() { r.Register("capturing", badClassConverter{class: "([0-9]+)"}) })
}
