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

package config

import (
	"strings"

	"github.com/sirupsen/logrus"

	"dirpx.dev/nucleus/apis"
)

// Validate checks cfg and returns the first FieldError found.
func Validate(cfg apis.Config) error {
	if strings.TrimSpace(cfg.Marker) == "" {
		return newFieldError("marker", "must not be empty")
	}
	if cfg.TypeSuffix == "" {
		return newFieldError("type_suffix", "must not be empty")
	}
	if !strings.HasPrefix(cfg.TypeSuffix, ".") {
		return newFieldError("type_suffix", "must start with '.'")
	}
	for _, ext := range cfg.ArchiveExtensions {
		if !strings.HasPrefix(ext, ".") {
			return newFieldError("archive_extensions", "extension "+ext+" must start with '.'")
		}
	}
	if cfg.MaxUnwrap < 0 {
		return newFieldError("max_unwrap", "must not be negative")
	}
	if cfg.Workers < 1 {
		return newFieldError("workers", "must be at least 1")
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return newFieldError("log.level", err.Error())
	}
	return nil
}
