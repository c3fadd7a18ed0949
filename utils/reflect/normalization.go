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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/nucleus/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("nucleus(reflect): nil reflect.Type provided")
	// ErrReflectTooDeep is returned when pointer nesting exceeds the unwrap limit
	// without reaching an interface.
	ErrReflectTooDeep = errors.New("nucleus(reflect): pointer nesting exceeds unwrap limit")
)

// Capability normalizes a registry key.
//
// Unwrapping policy:
//   - *I, **I, ... where I is an interface -> I (the usual
//     reflect.TypeOf((*I)(nil)) spelling of an interface key);
//   - anything else, including pointers to concrete types, is returned as-is.
//
// If maxUnwrap <= 0, DefaultMaxUnwrap is used.
func Capability(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	cur := t
	for i := 0; cur.Kind() == reflect.Ptr; i++ {
		if i >= maxUnwrap {
			return nil, ErrReflectTooDeep
		}
		cur = cur.Elem()
	}
	if cur.Kind() == reflect.Interface {
		return cur, nil
	}
	return t, nil
}

// Conforms reports whether the runtime type of v satisfies capability c:
// implements it for interfaces, is assignable to it otherwise. A nil v
// conforms to nothing.
func Conforms(v any, c reflect.Type) bool {
	if v == nil || c == nil {
		return false
	}
	return TypeConforms(reflect.TypeOf(v), c)
}

// TypeConforms is Conforms for a type rather than a value.
func TypeConforms(t, c reflect.Type) bool {
	if t == nil || c == nil {
		return false
	}
	if c.Kind() == reflect.Interface {
		return t.Implements(c)
	}
	return t.AssignableTo(c)
}
