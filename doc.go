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

// Package nucleus provides component discovery and a process-wide capability
// registry.
//
// Components ship as module roots: directories or zip archives (.jar, .zip)
// that carry a marker resource, component.properties by default. On first use
// nucleus walks every root on the search path, turns each type-bearing member
// (pkg/Name.class) into a candidate name (pkg.Name), resolves it through a
// chain of type resolvers and instantiates every concrete type that implements
// apis.LoadObserver. Each observer is then handed every resolved type, and
// typically registers the instances it builds into the Registry.
//
// # Design
//
// A Nucleus holds three things:
//
//   - Config: the marker name, type suffix, search paths, archive extensions,
//     worker count and logging settings. See package config.
//
//   - Registry: a map from capability types to the ordered instances
//     registered for them. Keys are normalized, so a pointer to an interface
//     and the interface itself name the same capability. Reads are lock-free.
//
//   - Coordinator: the once-only discovery pass. Concurrent first callers block
//     until it has finished; afterwards checking for it is a single atomic load.
//     Failures never escape the pass. They are logged and collected in
//     Coordinator().Report().
//
// Components are assembled by an apis.Builder, which may migrate registry
// entries from a previous generation.
//
// # Global API
//
// The process-wide Nucleus is built lazily from config.DefaultConfig overlaid
// with NUCLEUS_* environment variables, the default strategy table and the OS
// filesystem:
//
//	nucleus.Register[Greeter](hello{})
//	g, ok, err := nucleus.FindPart[Greeter]()
//	all := nucleus.FindParts[Greeter]()
//
// Every Find* call runs discovery if it has not run yet. Register never does,
// so observers may register from Handle. Observers must not call Find* or Init
// from Handle: the pass is not reentrant. An observer that reads the registry
// implements apis.RegistryAware and uses the registry it is handed.
//
// Types become resolvable by registering a descriptor, usually from init():
//
//	func init() {
//		strategy.MustRegister(strategy.For[GreeterLoader]("acme.GreeterLoader"))
//	}
//
// # Concurrency model
//
// Register and Find* are safe for concurrent use. SetDefault and SetConfig take
// a short build lock and publish a new snapshot atomically; readers always see
// a consistent Nucleus.
package nucleus
