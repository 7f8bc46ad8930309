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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResolver_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := New(localizedConf())
	languages := []language.Tag{language.Und, language.English, language.French}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx := WithLanguage(context.Background(), languages[n%len(languages)])

			for j := 0; j < 50; j++ {
				m, err := r.Resolve(context.Background(), "/articles/2023/")
				assert.NoError(t, err)
				assert.Equal(t, "year_archive", m.Handler)

				url, err := r.Reverse(ctx, "year_archive", Args(2023))
				assert.NoError(t, err)
				assert.NotEmpty(t, url)

				_, err = r.Resolve(context.Background(), fmt.Sprintf("/missing/%d/", j))
				assert.Error(t, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestGet_ConcurrentFirstAccess(t *testing.T) {
	t.Parallel()

	conf := NewConfig(Path("a/", "a"))

	resolvers := make([]*Resolver, 16)
	var wg sync.WaitGroup
	for i := range resolvers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			resolvers[n] = Get(conf)
		}(i)
	}
	wg.Wait()

	require.NotNil(t, resolvers[0])
	for _, r := range resolvers[1:] {
		assert.Same(t, resolvers[0], r)
	}
}
