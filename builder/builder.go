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

package builder

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/enumerator"
	"dirpx.dev/nucleus/environment"
	"dirpx.dev/nucleus/registry"
)

// New creates and returns a new instance of an apis.Builder whose environment
// and enumerator read through fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) apis.Builder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &builder{fs: fs}
}

// builder carries the filesystem shared by the components it builds.
type builder struct {
	fs afero.Fs
}

// Ensure builder implements apis.Builder.
var _ apis.Builder = (*builder)(nil)

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry, keeping the per-type insertion order.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	next := registry.New(cfg)
	if prev == nil {
		return next
	}
	for _, e := range prev.Entries() {
		for _, part := range e.Parts {
			_ = next.Register(e.Type, part)
		}
	}
	return next
}

// BuildEnvironment builds the environment that locates module roots on cfg.SearchPaths.
func (b *builder) BuildEnvironment(cfg apis.Config, log logrus.FieldLogger) apis.Environment {
	return environment.New(b.fs, cfg.SearchPaths,
		environment.WithArchiveExtensions(cfg.ArchiveExtensions...),
		environment.WithLogger(log),
	)
}

// BuildEnumerator builds the enumerator that lists module root members.
func (b *builder) BuildEnumerator(_ apis.Config) apis.Enumerator {
	return enumerator.New(b.fs)
}
