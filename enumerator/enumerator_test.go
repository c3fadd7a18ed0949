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

package enumerator_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/enumerator"
)

func writeFiles(t *testing.T, fs afero.Fs, files ...string) {
	t.Helper()

	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
}

func zipBytes(t *testing.T, names ...string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestEnumerate_FilesystemTree(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/mod/a/b/c.class", "/mod/a/d.class")

	got, err := enumerator.New(fs).Enumerate(apis.ModuleRoot{Locator: "/mod", Protocol: apis.ProtocolFilesystem})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/b/c.class", "a/d.class"}, got)
}

func TestEnumerate_FileLocatorUsesParent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/mod/component.properties", "/mod/x/Y.class", "/other/Z.class")

	got, err := enumerator.New(fs).Enumerate(apis.ModuleRoot{
		Locator:  "/mod/component.properties",
		Protocol: apis.ProtocolFilesystem,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"component.properties", "x/Y.class"}, got)
}

func TestEnumerate_MissingDirectoryIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := enumerator.New(afero.NewMemMapFs()).Enumerate(apis.ModuleRoot{
		Locator:  "/nowhere",
		Protocol: apis.ProtocolFilesystem,
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnumerate_DeterministicOrder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/mod/b.class", "/mod/a/z.class", "/mod/c.class")
	enum := enumerator.New(fs)
	root := apis.ModuleRoot{Locator: "/mod", Protocol: apis.ProtocolFilesystem}

	first, err := enum.Enumerate(root)
	require.NoError(t, err)
	second, err := enum.Enumerate(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnumerate_OSFilesystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "c.class"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "d.class"), nil, 0o644))

	got, err := enumerator.New(afero.NewOsFs()).Enumerate(apis.ModuleRoot{Locator: dir, Protocol: apis.ProtocolFilesystem})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/b/c.class", "a/d.class"}, got)
}

func TestEnumerate_Archive(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/lib/mod.jar", zipBytes(t, "X.class", "META-INF/MANIFEST.MF"), 0o644))

	got, err := enumerator.New(fs).Enumerate(apis.ModuleRoot{Locator: "/lib/mod.jar", Protocol: apis.ProtocolArchive})
	require.NoError(t, err)
	assert.Equal(t, []string{"X.class", "META-INF/MANIFEST.MF"}, got)
}

func TestEnumerate_UnreadableArchive(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/lib/broken.jar", []byte("not a zip"), 0o644))
	enum := enumerator.New(fs)

	for _, locator := range []string{"/lib/broken.jar", "/lib/missing.jar"} {
		got, err := enum.Enumerate(apis.ModuleRoot{Locator: locator, Protocol: apis.ProtocolArchive})
		require.ErrorIs(t, err, enumerator.ErrArchiveUnreadable, locator)
		assert.Empty(t, got)
	}
}

func TestEnumerate_UnknownProtocol(t *testing.T) {
	t.Parallel()

	got, err := enumerator.New(afero.NewMemMapFs()).Enumerate(apis.ModuleRoot{Locator: "/x", Protocol: "http"})
	require.ErrorIs(t, err, enumerator.ErrUnknownProtocol)
	assert.Empty(t, got)
}

func TestTypeNames(t *testing.T) {
	t.Parallel()

	paths := []string{"a/b/c.class", "META-INF/MANIFEST.MF", "Good.class", "a/d.class", "notes.class.txt"}

	assert.Equal(t, []string{"a.b.c", "Good", "a.d"}, enumerator.TypeNames(paths, ".class"))
	assert.Empty(t, enumerator.TypeNames(paths, ""))
	assert.Empty(t, enumerator.TypeNames(nil, ".class"))
}
