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

// Config carries read-only discovery and registry knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Marker is the relative resource name whose presence at a search path
	// marks that location as a module root (e.g. "component.properties").
	Marker string `mapstructure:"marker" env:"NUCLEUS_MARKER"`

	// TypeSuffix selects type-bearing member paths. Members ending in it are
	// turned into candidate type names by stripping it and replacing "/" with ".".
	TypeSuffix string `mapstructure:"type_suffix" env:"NUCLEUS_TYPE_SUFFIX"`

	// SearchPaths lists the locations scanned for the marker, in order.
	// Entries may be directories, archives or glob patterns.
	SearchPaths []string `mapstructure:"search_paths" env:"NUCLEUS_PATH" envSeparator:":"`

	// ArchiveExtensions lists the file extensions treated as zip archives.
	ArchiveExtensions []string `mapstructure:"archive_extensions" env:"NUCLEUS_ARCHIVE_EXTS" envSeparator:","`

	// MaxUnwrap limits pointer unwrapping when normalizing capability keys.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int `mapstructure:"max_unwrap" env:"NUCLEUS_MAX_UNWRAP"`

	// Workers bounds how many module roots are enumerated concurrently.
	Workers int `mapstructure:"workers" env:"NUCLEUS_WORKERS"`

	// Log configures the process logger.
	Log LogConfig `mapstructure:"log" envPrefix:"NUCLEUS_LOG_"`
}

// LogConfig controls logger level and output.
type LogConfig struct {
	// Level is a logrus level name ("debug", "info", "warning", ...).
	Level string `mapstructure:"level" env:"LEVEL"`
	// FilePath enables rotating file output when non-empty.
	FilePath string `mapstructure:"file_path" env:"FILE"`
	// MaxSize is the rotation threshold in megabytes.
	MaxSize int `mapstructure:"max_size" env:"MAX_SIZE"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `mapstructure:"max_backups" env:"MAX_BACKUPS"`
	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress" env:"COMPRESS"`
}
