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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/config"
	nerrors "dirpx.dev/nucleus/errors"
	uref "dirpx.dev/nucleus/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("nucleus(registry): nil reflect.Type provided")
	// ErrNonConformingPart indicates that the primary part registered for a
	// capability does not satisfy that capability.
	ErrNonConformingPart = errors.New("nucleus(registry): part does not implement the requested capability")
)

// New constructs a Registry that normalizes capability keys according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg, m: xsync.NewMapOf[reflect.Type, *entry]()}
}

// registry is a Registry implementation backed by xsync.MapOf.
type registry struct {
	// cfg is the configuration used for key normalization.
	cfg apis.Config
	// m maps a normalized capability type to its entry.
	m *xsync.MapOf[reflect.Type, *entry]
}

// entry holds the ordered parts of one capability.
type entry struct {
	mu    sync.RWMutex
	parts []any
}

func (e *entry) append(v any) {
	e.mu.Lock()
	e.parts = append(e.parts, v)
	e.mu.Unlock()
}

// snapshot returns a copy so callers never observe later appends.
func (e *entry) snapshot() []any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]any, len(e.parts))
	copy(out, e.parts)
	return out
}

func (e *entry) first() (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.parts) == 0 {
		return nil, false
	}
	return e.parts[0], true
}

// Register appends v to the entry of t.
func (r *registry) Register(t reflect.Type, v any) error {
	key, err := r.key(t)
	if err != nil {
		return err
	}
	// LoadOrCompute creates the entry exactly once even under racing writers;
	// the append itself is guarded by the entry lock.
	e, _ := r.m.LoadOrCompute(key, func() *entry { return &entry{} })
	e.append(v)
	return nil
}

// FindPart returns the primary part for t.
func (r *registry) FindPart(t reflect.Type) (any, bool, error) {
	key, err := r.key(t)
	if err != nil {
		return nil, false, err
	}
	e, ok := r.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	v, ok := e.first()
	if !ok {
		return nil, false, nil
	}
	if !uref.Conforms(v, key) {
		return nil, false, nerrors.WithStackTraceAndPrefix(ErrNonConformingPart, "%s resolved to %T", key, v)
	}
	return v, true, nil
}

// FindParts returns the parts of t that satisfy t, dropping the rest.
func (r *registry) FindParts(t reflect.Type) []any {
	key, err := r.key(t)
	if err != nil {
		return []any{}
	}
	all := r.lookup(key)
	out := make([]any, 0, len(all))
	for _, v := range all {
		if uref.Conforms(v, key) {
			out = append(out, v)
		}
	}
	return out
}

// FindAll returns every part registered for t, unfiltered.
func (r *registry) FindAll(t reflect.Type) []any {
	key, err := r.key(t)
	if err != nil {
		return []any{}
	}
	return r.lookup(key)
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.m.Size())
	r.m.Range(func(key reflect.Type, e *entry) bool {
		entries = append(entries, apis.Entry{Type: key, Parts: e.snapshot()})
		return true
	})
	return entries
}

// Count returns the number of capability entries.
func (r *registry) Count() int {
	return r.m.Size()
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.m.Clear()
}

func (r *registry) key(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	return uref.Capability(t, r.cfg.MaxUnwrap)
}

func (r *registry) lookup(key reflect.Type) []any {
	e, ok := r.m.Load(key)
	if !ok {
		return []any{}
	}
	return e.snapshot()
}
