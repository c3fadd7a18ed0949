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

// Package enumerator lists the members of module roots, uniformly for
// directory trees and zip-format archives.
package enumerator

import (
	"archive/zip"
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"dirpx.dev/nucleus/apis"
	nerrors "dirpx.dev/nucleus/errors"
)

var (
	// ErrArchiveUnreadable is returned when an archive root cannot be opened.
	ErrArchiveUnreadable = errors.New("nucleus(enumerator): archive cannot be opened")
	// ErrUnknownProtocol is returned for roots with an unsupported protocol.
	ErrUnknownProtocol = errors.New("nucleus(enumerator): unknown root protocol")
)

// New returns an apis.Enumerator reading through fs.
func New(fs afero.Fs) apis.Enumerator {
	return &enumerator{fs: fs}
}

type enumerator struct {
	fs afero.Fs
}

// Ensure enumerator implements apis.Enumerator.
var _ apis.Enumerator = (*enumerator)(nil)

// Enumerate lists the member paths of root. Errors are recoverable and come
// with an empty result.
func (e *enumerator) Enumerate(root apis.ModuleRoot) ([]string, error) {
	switch root.Protocol {
	case apis.ProtocolFilesystem:
		return e.tree(root.Locator), nil
	case apis.ProtocolArchive:
		return e.archive(root.Locator)
	default:
		return []string{}, nerrors.WithStackTraceAndPrefix(ErrUnknownProtocol, "%q for %s", root.Protocol, root.Locator)
	}
}

// tree lists every non-directory below locator, or below its parent when
// locator is a file.
func (e *enumerator) tree(locator string) []string {
	dir := locator
	if info, err := e.fs.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	result := []string{}
	e.addFiles(dir, "", &result)
	return result
}

// addFiles appends the files below dir to result; rel is dir relative to the root
// in "/" form. Missing or non-directory dirs add nothing.
func (e *enumerator) addFiles(dir, rel string, result *[]string) {
	infos, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return
	}
	for _, info := range infos {
		member := path.Join(rel, info.Name())
		if info.IsDir() {
			e.addFiles(filepath.Join(dir, info.Name()), member, result)
			continue
		}
		*result = append(*result, member)
	}
}

// archive lists every entry name of the zip at locator verbatim.
func (e *enumerator) archive(locator string) ([]string, error) {
	zr, closer, err := OpenArchive(e.fs, locator)
	if err != nil {
		return []string{}, err
	}
	defer func() { _ = closer.Close() }()

	result := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		result = append(result, f.Name)
	}
	return result, nil
}

// OpenArchive opens the zip archive at name on fs. The returned closer releases
// the underlying file. Failures wrap ErrArchiveUnreadable.
func OpenArchive(fs afero.Fs, name string) (*zip.Reader, afero.File, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, nil, nerrors.WithStackTraceAndPrefix(errors.Join(ErrArchiveUnreadable, err), "%s", name)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, nerrors.WithStackTraceAndPrefix(errors.Join(ErrArchiveUnreadable, err), "%s", name)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, nerrors.WithStackTraceAndPrefix(errors.Join(ErrArchiveUnreadable, err), "%s", name)
	}
	return zr, f, nil
}

// TypeNames turns the member paths ending in suffix into candidate type names
// ("a/b/C.class" -> "a.b.C"), preserving order.
func TypeNames(paths []string, suffix string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		if suffix == "" || !strings.HasSuffix(p, suffix) {
			continue
		}
		names = append(names, strings.ReplaceAll(strings.TrimSuffix(p, suffix), "/", "."))
	}
	return names
}
