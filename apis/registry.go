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

import "reflect"

// Registry maps a capability type to the ordered instances registered for it.
// Implementations must be safe for concurrent Register and Find* calls.
type Registry interface {
	// Register appends v to the entry for capability t, creating it if absent.
	// No conformance check is made; duplicates are kept.
	Register(t reflect.Type, v any) error
	// FindPart returns the first instance registered for t.
	// ok is false when nothing is registered. A first instance that does not
	// satisfy t is reported as an error.
	FindPart(t reflect.Type) (v any, ok bool, err error)
	// FindParts returns every instance registered for t that satisfies t,
	// in registration order.
	FindParts(t reflect.Type) []any
	// FindAll returns every instance registered for t, unfiltered.
	FindAll(t reflect.Type) []any
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of capability entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single capability with its parts in a Registry snapshot.
type Entry struct {
	// Type is the (normalized) capability type.
	Type reflect.Type
	// Parts are the registered instances in registration order.
	Parts []any
}
