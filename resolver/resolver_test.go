/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package resolver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/resolver"
	"dirpx.dev/nucleus/strategy"
)

type first struct{}
type second struct{}

func tableWith(t *testing.T, ds ...strategy.Descriptor) *strategy.Table {
	t.Helper()

	tbl := strategy.NewTable()
	for _, d := range ds {
		require.NoError(t, tbl.Register(d))
	}
	return tbl
}

func TestChain_OrderAndFallThrough(t *testing.T) {
	t.Parallel()

	a := tableWith(t, strategy.For[first]("x.Shared"), strategy.For[first]("x.OnlyA"))
	b := tableWith(t, strategy.For[second]("x.Shared"), strategy.For[second]("x.OnlyB"))

	res := resolver.New(nil, a, nil, b)

	rt, err := res.Resolve("x.Shared")
	require.NoError(t, err)
	assert.Equal(t, "*resolver_test.first", rt.Type().String())

	rt, err = res.Resolve("x.OnlyB")
	require.NoError(t, err)
	assert.Equal(t, "*resolver_test.second", rt.Type().String())

	_, err = res.Resolve("x.Nowhere")
	assert.ErrorIs(t, err, apis.ErrNotFound)
}

func TestChain_DependencyMissingStops(t *testing.T) {
	t.Parallel()

	a := tableWith(t, strategy.For[first]("x.Broken", "x.Gone"))
	b := tableWith(t, strategy.For[second]("x.Broken"))

	_, err := resolver.New(a, b).Resolve("x.Broken")
	assert.ErrorIs(t, err, apis.ErrDependencyMissing)
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	_, err := resolver.New().Resolve("x.Any")
	assert.ErrorIs(t, err, apis.ErrNotFound)
}

func TestFunc_NilResultIsNotFound(t *testing.T) {
	t.Parallel()

	calls := 0
	f := resolver.Func(func(name string) (apis.ResolvedType, error) {
		calls++
		if name == "x.Err" {
			return nil, fmt.Errorf("boom")
		}
		return nil, nil
	})

	_, err := resolver.New(f).Resolve("x.Nil")
	assert.ErrorIs(t, err, apis.ErrNotFound)

	_, err = resolver.New(f).Resolve("x.Err")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apis.ErrNotFound)
	assert.Equal(t, 2, calls)
}

func TestChain_NilResultFallsThrough(t *testing.T) {
	t.Parallel()

	empty := resolver.Func(func(string) (apis.ResolvedType, error) { return nil, nil })
	b := tableWith(t, strategy.For[second]("x.Later"))

	rt, err := resolver.New(empty, b).Resolve("x.Later")
	require.NoError(t, err)
	assert.Equal(t, "x.Later", rt.Name())
	assert.Equal(t, "*resolver_test.second", rt.Type().String())
}
