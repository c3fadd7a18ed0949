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

package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"dirpx.dev/nucleus/apis"
)

// PassFields identifies one discovery pass.
func PassFields(passID string) logrus.Fields {
	return logrus.Fields{
		"action":  "discovery",
		"pass_id": passID,
	}
}

// RootFields describes a module root.
func RootFields(root apis.ModuleRoot) logrus.Fields {
	fields := logrus.Fields{
		"root":     root.Locator,
		"protocol": string(root.Protocol),
	}
	if name := root.Properties["name"]; name != "" {
		fields["component"] = name
	}
	return fields
}

// TypeFields describes a candidate or resolved type.
func TypeFields(name string) logrus.Fields {
	return logrus.Fields{"type": name}
}

// ObserverFields names a load observer, preferring its apis.Namer name.
func ObserverFields(obs any) logrus.Fields {
	if n, ok := obs.(apis.Namer); ok {
		if name := n.EntityName(); name != "" {
			return logrus.Fields{"observer": name}
		}
	}
	return logrus.Fields{"observer": fmt.Sprintf("%T", obs)}
}
