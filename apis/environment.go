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

import "context"

// Protocol tags how a ModuleRoot is stored.
type Protocol string

const (
	// ProtocolFilesystem is a directory subtree.
	ProtocolFilesystem Protocol = "filesystem"
	// ProtocolArchive is a single zip-format archive file.
	ProtocolArchive Protocol = "archive"
)

// ModuleRoot is a location known to contain installable members.
type ModuleRoot struct {
	// Locator is the marker file for filesystem roots, the archive file for archive roots.
	Locator string
	// Protocol selects how the root is enumerated.
	Protocol Protocol
	// Marker is the marker resource name that identified the root.
	Marker string
	// Properties holds the parsed content of the marker resource.
	Properties map[string]string
}

// String returns a URL-like form of the root, used in logs.
func (r ModuleRoot) String() string {
	if r.Protocol == ProtocolArchive {
		return "archive:" + r.Locator + "!/" + r.Marker
	}
	return "file:" + r.Locator
}

// Environment enumerates every module root that carries a marker resource.
type Environment interface {
	Roots(ctx context.Context, marker string) ([]ModuleRoot, error)
}

// Enumerator lists the relative, "/"-separated member paths of a ModuleRoot.
// A returned error is recoverable; the accompanying slice is then empty.
type Enumerator interface {
	Enumerate(root ModuleRoot) ([]string, error)
}
