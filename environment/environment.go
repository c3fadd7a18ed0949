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

// Package environment locates module roots: every search path entry that
// carries the marker resource, as a directory or as a zip-format archive.
package environment

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/config"
	"dirpx.dev/nucleus/enumerator"
	"dirpx.dev/nucleus/errors"
)

// Option configures an environment.
type Option func(*environment)

// WithArchiveExtensions replaces the extensions probed as archives.
func WithArchiveExtensions(exts ...string) Option {
	return func(e *environment) {
		e.archiveExts = append([]string(nil), exts...)
	}
}

// WithLogger sets the logger used for skipped archives and bad markers.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *environment) {
		if log != nil {
			e.log = log
		}
	}
}

// New returns an apis.Environment scanning paths, in order, on fs.
func New(fs afero.Fs, paths []string, opts ...Option) apis.Environment {
	e := &environment{
		fs:          fs,
		paths:       append([]string(nil), paths...),
		archiveExts: config.DefaultArchiveExtensions(),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type environment struct {
	fs          afero.Fs
	paths       []string
	archiveExts []string
	log         logrus.FieldLogger
}

// Ensure environment implements apis.Environment.
var _ apis.Environment = (*environment)(nil)

// Roots returns the module roots carrying marker, in search path order.
// Glob entries expand to their sorted matches. Entries that do not exist or
// carry no marker are skipped. A malformed pattern or a failing stat aborts the
// listing; the roots found so far are returned with the error. Archives that
// cannot be opened are kept as roots.
func (e *environment) Roots(ctx context.Context, marker string) ([]apis.ModuleRoot, error) {
	roots := []apis.ModuleRoot{}
	for _, entry := range e.paths {
		if err := ctx.Err(); err != nil {
			return roots, errors.WithStackTrace(err)
		}
		candidates, err := e.expand(entry)
		if err != nil {
			return roots, err
		}
		for _, candidate := range candidates {
			root, ok, err := e.probe(candidate, marker)
			if err != nil {
				return roots, err
			}
			if ok {
				roots = append(roots, root)
			}
		}
	}
	return roots, nil
}

func (e *environment) expand(entry string) ([]string, error) {
	if !strings.ContainsAny(entry, "*?[") {
		return []string{entry}, nil
	}
	matches, err := afero.Glob(e.fs, entry)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "nucleus(environment): search path %q", entry)
	}
	sort.Strings(matches)
	return matches, nil
}

func (e *environment) probe(candidate, marker string) (apis.ModuleRoot, bool, error) {
	info, err := e.fs.Stat(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return apis.ModuleRoot{}, false, nil
		}
		return apis.ModuleRoot{}, false, errors.WithStackTraceAndPrefix(err, "nucleus(environment): stat %s", candidate)
	}

	if info.IsDir() {
		return e.probeDir(candidate, marker)
	}
	if e.isArchive(candidate) {
		root, ok := e.probeArchive(candidate, marker)
		return root, ok, nil
	}
	return apis.ModuleRoot{}, false, nil
}

func (e *environment) probeDir(dir, marker string) (apis.ModuleRoot, bool, error) {
	locator := filepath.Join(dir, filepath.FromSlash(marker))
	info, err := e.fs.Stat(locator)
	if err != nil {
		if os.IsNotExist(err) {
			return apis.ModuleRoot{}, false, nil
		}
		return apis.ModuleRoot{}, false, errors.WithStackTraceAndPrefix(err, "nucleus(environment): stat %s", locator)
	}
	if info.IsDir() {
		return apis.ModuleRoot{}, false, nil
	}

	root := apis.ModuleRoot{Locator: locator, Protocol: apis.ProtocolFilesystem, Marker: marker}
	data, err := afero.ReadFile(e.fs, locator)
	if err != nil {
		e.log.WithField("root", locator).Warnf("Failed to read marker: %v", err)
		root.Properties = map[string]string{}
		return root, true, nil
	}
	root.Properties = e.parseMarker(locator, data)
	return root, true, nil
}

// probeArchive reports whether the archive carries marker. An archive that
// cannot be opened is still returned as a root, so enumerating it records
// the failure.
func (e *environment) probeArchive(archive, marker string) (apis.ModuleRoot, bool) {
	zr, closer, err := enumerator.OpenArchive(e.fs, archive)
	if err != nil {
		e.log.WithField("root", archive).Debugf("Archive cannot be opened: %v", err)
		return apis.ModuleRoot{
			Locator:    archive,
			Protocol:   apis.ProtocolArchive,
			Marker:     marker,
			Properties: map[string]string{},
		}, true
	}
	defer func() { _ = closer.Close() }()

	for _, f := range zr.File {
		if f.Name != marker {
			continue
		}
		root := apis.ModuleRoot{Locator: archive, Protocol: apis.ProtocolArchive, Marker: marker}
		root.Properties = map[string]string{}
		rc, err := f.Open()
		if err != nil {
			e.log.WithField("root", archive).Warnf("Failed to read marker: %v", err)
			return root, true
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			e.log.WithField("root", archive).Warnf("Failed to read marker: %v", err)
			return root, true
		}
		root.Properties = e.parseMarker(archive, data)
		return root, true
	}
	return apis.ModuleRoot{}, false
}

// parseMarker reads .properties content. Malformed content yields no properties.
func (e *environment) parseMarker(locator string, data []byte) map[string]string {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		e.log.WithField("root", locator).Warnf("Ignoring malformed marker: %v", err)
		return map[string]string{}
	}
	return p.Map()
}

func (e *environment) isArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range e.archiveExts {
		if strings.ToLower(candidate) == ext {
			return true
		}
	}
	return false
}
