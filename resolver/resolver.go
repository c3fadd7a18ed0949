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

package resolver

import (
	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/errors"
)

// New constructs an apis.TypeResolver that tries the given sources in order.
// Nil sources are ignored. The returned resolver is safe for concurrent use
// provided the sources themselves are safe for concurrent Resolve calls.
func New(sources ...apis.TypeResolver) apis.TypeResolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.TypeResolver, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{sources: out}
}

// chain is an immutable, order-preserving resolver over a set of sources.
type chain struct {
	sources []apis.TypeResolver
}

// Resolve asks each source in turn. apis.ErrNotFound, or a nil type without an
// error, falls through to the next source; any other outcome, including
// apis.ErrDependencyMissing, is final.
func (c chain) Resolve(name string) (apis.ResolvedType, error) {
	for _, s := range c.sources {
		rt, err := s.Resolve(name)
		switch {
		case err == nil && rt != nil:
			return rt, nil
		case err == nil, errors.Is(err, apis.ErrNotFound):
			// A nil type without an error counts as not found.
			continue
		default:
			return nil, err
		}
	}
	return nil, errors.WithStackTraceAndPrefix(apis.ErrNotFound, "%s", name)
}

// Func adapts a plain function to apis.TypeResolver.
type Func func(name string) (apis.ResolvedType, error)

// Resolve calls f.
func (f Func) Resolve(name string) (apis.ResolvedType, error) {
	return f(name)
}
