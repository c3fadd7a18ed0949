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

package strategy

import (
	"reflect"

	"dirpx.dev/nucleus/apis"
	uref "dirpx.dev/nucleus/utils/reflect"
)

// Descriptor is a registration record for one resolvable type.
type Descriptor struct {
	// Name is the qualified, "."-separated name the type resolves from
	// (e.g. "billing.invoice.Exporter").
	Name string
	// Type is the Go type produced by New.
	Type reflect.Type
	// New constructs a zero-argument instance. Required unless Abstract.
	New func() (any, error)
	// Abstract marks declaration-only types that are never constructed.
	Abstract bool
	// Requires lists names that must also resolve for this type to load.
	Requires []string
}

// For builds a Descriptor for T. Structs are constructed as a fresh *T,
// pointer types as a fresh pointee, anything else as the zero T.
// Interfaces yield abstract descriptors.
func For[T any](name string, requires ...string) Descriptor {
	t := reflect.TypeOf((*T)(nil)).Elem()
	d := Descriptor{Name: name, Type: t, Requires: requires}

	switch t.Kind() {
	case reflect.Interface:
		d.Abstract = true
	case reflect.Pointer:
		d.New = func() (any, error) { return reflect.New(t.Elem()).Interface(), nil }
	case reflect.Struct:
		d.Type = reflect.PointerTo(t)
		d.New = func() (any, error) { return new(T), nil }
	default:
		d.New = func() (any, error) {
			var zero T
			return zero, nil
		}
	}
	return d
}

// resolvedType is the apis.ResolvedType view of a Descriptor.
type resolvedType struct {
	d Descriptor
}

// Ensure resolvedType implements apis.ResolvedType.
var _ apis.ResolvedType = resolvedType{}

func (r resolvedType) Name() string       { return r.d.Name }
func (r resolvedType) Type() reflect.Type { return r.d.Type }

// Abstract reports true for flagged descriptors and for interface types.
func (r resolvedType) Abstract() bool {
	return r.d.Abstract || r.d.Type.Kind() == reflect.Interface
}

func (r resolvedType) Satisfies(c reflect.Type) bool {
	return uref.TypeConforms(r.d.Type, c)
}

// New constructs an instance. Abstract types fail with ErrAbstract.
func (r resolvedType) New() (any, error) {
	if r.Abstract() || r.d.New == nil {
		return nil, ErrAbstract
	}
	return r.d.New()
}

func (r resolvedType) String() string { return r.d.Name }
