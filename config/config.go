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
	"dirpx.dev/nucleus/apis"
)

const (
	// DefaultMarker is the resource name that marks a module root.
	DefaultMarker = "component.properties"
	// DefaultTypeSuffix marks type-bearing members inside a module root.
	DefaultTypeSuffix = ".class"
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultWorkers is the default number of roots enumerated concurrently.
	DefaultWorkers = 4
	// DefaultLogLevel is the default logrus level.
	DefaultLogLevel = "info"
	// DefaultLogMaxSize is the default rotation threshold in megabytes.
	DefaultLogMaxSize = 100
	// DefaultLogMaxBackups is the default number of rotated log files kept.
	DefaultLogMaxBackups = 10
)

// DefaultArchiveExtensions returns the extensions treated as zip archives.
func DefaultArchiveExtensions() []string {
	return []string{".jar", ".zip"}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure numeric knobs are valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Marker:            DefaultMarker,
		TypeSuffix:        DefaultTypeSuffix,
		ArchiveExtensions: DefaultArchiveExtensions(),
		MaxUnwrap:         DefaultMaxUnwrap,
		Workers:           DefaultWorkers,
		Log: apis.LogConfig{
			Level:      DefaultLogLevel,
			MaxSize:    DefaultLogMaxSize,
			MaxBackups: DefaultLogMaxBackups,
			Compress:   true,
		},
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMarker sets the marker resource name.
func WithMarker(marker string) Option {
	return func(c *apis.Config) {
		c.Marker = marker
	}
}

// WithTypeSuffix sets the suffix of type-bearing member paths.
func WithTypeSuffix(suffix string) Option {
	return func(c *apis.Config) {
		c.TypeSuffix = suffix
	}
}

// WithSearchPaths replaces the search paths.
func WithSearchPaths(paths ...string) Option {
	return func(c *apis.Config) {
		c.SearchPaths = append([]string(nil), paths...)
	}
}

// WithArchiveExtensions replaces the archive extensions.
func WithArchiveExtensions(exts ...string) Option {
	return func(c *apis.Config) {
		c.ArchiveExtensions = append([]string(nil), exts...)
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithWorkers sets the enumeration concurrency. Values below 1 reset to the default.
func WithWorkers(n int) Option {
	return func(c *apis.Config) {
		if n < 1 {
			c.Workers = DefaultWorkers
			return
		}
		c.Workers = n
	}
}

// WithLogLevel sets the log level name.
func WithLogLevel(level string) Option {
	return func(c *apis.Config) {
		c.Log.Level = level
	}
}
