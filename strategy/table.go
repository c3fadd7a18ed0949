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
	"errors"
	"sort"
	"strings"
	"sync"

	"dirpx.dev/nucleus/apis"
	nerrors "dirpx.dev/nucleus/errors"
)

var (
	// ErrEmptyName is returned when a descriptor has no name.
	ErrEmptyName = errors.New("nucleus(strategy): empty type name")
	// ErrNilType is returned when a descriptor has no reflect.Type.
	ErrNilType = errors.New("nucleus(strategy): nil reflect.Type provided")
	// ErrNilConstructor is returned when a concrete descriptor has no constructor.
	ErrNilConstructor = errors.New("nucleus(strategy): concrete type without constructor")
	// ErrDuplicateName indicates an attempt to register a name twice.
	ErrDuplicateName = errors.New("nucleus(strategy): type name already registered")
	// ErrAbstract is returned when constructing an abstract type.
	ErrAbstract = errors.New("nucleus(strategy): abstract type cannot be instantiated")
)

// Table is an explicit name -> Descriptor table implementing apis.TypeResolver.
// It stands in for dynamic loading: packages register their types from init().
type Table struct {
	mu sync.RWMutex
	m  map[string]Descriptor
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{m: make(map[string]Descriptor)}
}

// Ensure Table implements apis.TypeResolver.
var _ apis.TypeResolver = (*Table)(nil)

// Register adds d to the table.
func (t *Table) Register(d Descriptor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.Type == nil {
		return ErrNilType
	}
	if !d.Abstract && d.New == nil {
		return nerrors.WithStackTraceAndPrefix(ErrNilConstructor, "%s", d.Name)
	}
	d.Requires = append([]string(nil), d.Requires...)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.m[d.Name]; exists {
		return nerrors.WithStackTraceAndPrefix(ErrDuplicateName, "%s", d.Name)
	}
	t.m[d.Name] = d
	return nil
}

// MustRegister panics if Register fails; meant for package init().
func (t *Table) MustRegister(d Descriptor) {
	if err := t.Register(d); err != nil {
		panic(err)
	}
}

// Resolve looks name up and checks that everything it requires (transitively)
// is registered as well.
func (t *Table) Resolve(name string) (apis.ResolvedType, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d, ok := t.m[name]
	if !ok {
		return nil, nerrors.WithStackTraceAndPrefix(apis.ErrNotFound, "%s", name)
	}
	if missing, ok := t.missingDependency(d, map[string]bool{name: true}); ok {
		return nil, nerrors.WithStackTraceAndPrefix(apis.ErrDependencyMissing, "%s requires %s", name, missing)
	}
	return resolvedType{d: d}, nil
}

// missingDependency walks d.Requires depth-first; seen breaks cycles.
// Callers hold t.mu.
func (t *Table) missingDependency(d Descriptor, seen map[string]bool) (string, bool) {
	for _, dep := range d.Requires {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		next, ok := t.m[dep]
		if !ok {
			return dep, true
		}
		if missing, ok := t.missingDependency(next, seen); ok {
			return missing, true
		}
	}
	return "", false
}

// Names returns the registered names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.m))
	for name := range t.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultTable is the process-wide table filled from package init().
var defaultTable = NewTable()

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

// Register adds d to the process-wide table.
func Register(d Descriptor) error {
	return defaultTable.Register(d)
}

// MustRegister adds d to the process-wide table and panics on failure.
func MustRegister(d Descriptor) {
	defaultTable.MustRegister(d)
}
