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

package discovery

// State is the InitializationState of a Coordinator.
// It only moves forward: Uninitialized -> Discovering -> Notifying -> Initialized.
type State int32

const (
	// StateUninitialized means no pass has started.
	StateUninitialized State = iota
	// StateDiscovering means module roots are being enumerated and resolved.
	StateDiscovering
	// StateNotifying means observers are being handed the resolved types.
	StateNotifying
	// StateInitialized is terminal; the pass never runs again.
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDiscovering:
		return "discovering"
	case StateNotifying:
		return "notifying"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}
