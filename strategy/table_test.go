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

package strategy_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/nucleus/apis"
	nerrors "dirpx.dev/nucleus/errors"
	"dirpx.dev/nucleus/strategy"
)

type observer struct{ seen int }

func (o *observer) Handle(apis.ResolvedType) error { o.seen++; return nil }

type plain struct{}

type Capability interface{ Do() }

var observerType = reflect.TypeOf((*apis.LoadObserver)(nil)).Elem()

func TestFor_Struct(t *testing.T) {
	t.Parallel()

	d := strategy.For[observer]("a.Observer")
	assert.Equal(t, reflect.TypeOf(&observer{}), d.Type)
	assert.False(t, d.Abstract)

	v, err := d.New()
	require.NoError(t, err)
	assert.IsType(t, &observer{}, v)
}

func TestFor_PointerAndInterface(t *testing.T) {
	t.Parallel()

	d := strategy.For[*plain]("a.Plain")
	v, err := d.New()
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.IsType(t, &plain{}, v)

	abstract := strategy.For[Capability]("a.Capability")
	assert.True(t, abstract.Abstract)
	assert.Nil(t, abstract.New)
}

func TestTable_RegisterValidation(t *testing.T) {
	t.Parallel()

	tbl := strategy.NewTable()

	assert.ErrorIs(t, tbl.Register(strategy.Descriptor{Type: reflect.TypeOf(plain{})}), strategy.ErrEmptyName)
	assert.ErrorIs(t, tbl.Register(strategy.Descriptor{Name: "a.X"}), strategy.ErrNilType)
	assert.ErrorIs(t, tbl.Register(strategy.Descriptor{Name: "a.X", Type: reflect.TypeOf(plain{})}), strategy.ErrNilConstructor)

	require.NoError(t, tbl.Register(strategy.For[plain]("a.Plain")))
	err := tbl.Register(strategy.For[plain]("a.Plain"))
	assert.ErrorIs(t, err, strategy.ErrDuplicateName)
	assert.Contains(t, err.Error(), "a.Plain")
	assert.Panics(t, func() { tbl.MustRegister(strategy.For[plain]("a.Plain")) })

	assert.Equal(t, []string{"a.Plain"}, tbl.Names())
}

func TestTable_Resolve(t *testing.T) {
	t.Parallel()

	tbl := strategy.NewTable()
	tbl.MustRegister(strategy.For[observer]("a.Observer"))
	tbl.MustRegister(strategy.For[Capability]("a.Capability"))

	rt, err := tbl.Resolve("a.Observer")
	require.NoError(t, err)
	assert.Equal(t, "a.Observer", rt.Name())
	assert.True(t, rt.Satisfies(observerType))
	assert.False(t, rt.Abstract())

	v, err := rt.New()
	require.NoError(t, err)
	_, ok := v.(apis.LoadObserver)
	assert.True(t, ok)

	abstract, err := tbl.Resolve("a.Capability")
	require.NoError(t, err)
	assert.True(t, abstract.Abstract())
	_, err = abstract.New()
	assert.ErrorIs(t, err, strategy.ErrAbstract)

	_, err = tbl.Resolve("a.Missing")
	assert.ErrorIs(t, err, apis.ErrNotFound)
}

func TestTable_DependencyMissing(t *testing.T) {
	t.Parallel()

	tbl := strategy.NewTable()
	tbl.MustRegister(strategy.For[plain]("a.Direct", "a.Middle"))
	tbl.MustRegister(strategy.For[*plain]("a.Middle", "a.Gone"))
	tbl.MustRegister(strategy.For[observer]("a.Cyclic", "a.Cyclic2"))
	tbl.MustRegister(strategy.For[*observer]("a.Cyclic2", "a.Cyclic"))

	_, err := tbl.Resolve("a.Direct")
	require.ErrorIs(t, err, apis.ErrDependencyMissing)
	assert.False(t, errors.Is(err, apis.ErrNotFound))
	assert.Contains(t, err.Error(), "a.Direct requires a.Gone")
	assert.NotEmpty(t, nerrors.StackTrace(err))

	_, err = tbl.Resolve("a.Cyclic")
	assert.NoError(t, err)
}

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	name := "strategy_test.DefaultOnly"
	require.NoError(t, strategy.Register(strategy.For[plain](name)))
	assert.Contains(t, strategy.Default().Names(), name)

	_, err := strategy.Default().Resolve(name)
	assert.NoError(t, err)
}
