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

// Namer is optionally implemented by load observers and parts to give a
// stable, human-chosen name used in log fields instead of the Go type.
// EntityName must be cheap, safe for concurrent use and free of I/O.
type Namer interface {
	// EntityName returns the canonical, type-level name, for example "acme.greeter-loader".
	EntityName() string
}
