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

package apis

import (
	"errors"
	"reflect"
)

var (
	// ErrNotFound reports that a name does not correspond to any loadable type.
	ErrNotFound = errors.New("nucleus(resolver): type not found")
	// ErrDependencyMissing reports that a type exists but a dependency it
	// requires could not be resolved.
	ErrDependencyMissing = errors.New("nucleus(resolver): dependency missing")
)

// TypeResolver turns a qualified type name into a ResolvedType.
// Failures wrap ErrNotFound or ErrDependencyMissing.
type TypeResolver interface {
	Resolve(name string) (ResolvedType, error)
}

// ResolvedType is a loaded, constructible type handle.
type ResolvedType interface {
	// Name returns the qualified name the type was resolved from.
	Name() string
	// Type returns the Go type produced by New.
	Type() reflect.Type
	// Abstract reports whether the type is declaration-only and cannot be built.
	Abstract() bool
	// Satisfies reports whether values of this type conform to capability c.
	Satisfies(c reflect.Type) bool
	// New constructs a zero-argument instance.
	New() (any, error)
}

// LoadObserver is notified about every type resolved during discovery.
type LoadObserver interface {
	Handle(t ResolvedType) error
}

// RegistryAware is optionally implemented by load observers that read or write
// the registry from Handle. UseRegistry is called once, after construction and
// before the first Handle call. Reads through that registry never trigger
// discovery, so they are the only reads allowed from Handle.
type RegistryAware interface {
	UseRegistry(reg Registry)
}
