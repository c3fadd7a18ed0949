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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/nucleus/config"
)

func TestDefaultConfigValues(t *testing.T) {
	t.Parallel()

	got := config.DefaultConfig()

	assert.Equal(t, config.DefaultMarker, got.Marker)
	assert.Equal(t, config.DefaultTypeSuffix, got.TypeSuffix)
	assert.Equal(t, config.DefaultArchiveExtensions(), got.ArchiveExtensions)
	assert.Equal(t, config.DefaultMaxUnwrap, got.MaxUnwrap)
	assert.Equal(t, config.DefaultWorkers, got.Workers)
	assert.Equal(t, config.DefaultLogLevel, got.Log.Level)
	assert.Empty(t, got.SearchPaths)
	assert.NoError(t, config.Validate(got))
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.DefaultConfig(), config.NewConfig())
}

func TestNewConfig_Options(t *testing.T) {
	t.Parallel()

	c := config.NewConfig(
		config.WithMarker("module.properties"),
		config.WithTypeSuffix(".type"),
		config.WithSearchPaths("/opt/a", "/opt/b.zip"),
		config.WithArchiveExtensions(".zip"),
		config.WithMaxUnwrap(3),
		config.WithWorkers(2),
		config.WithLogLevel("debug"),
	)

	assert.Equal(t, "module.properties", c.Marker)
	assert.Equal(t, ".type", c.TypeSuffix)
	assert.Equal(t, []string{"/opt/a", "/opt/b.zip"}, c.SearchPaths)
	assert.Equal(t, []string{".zip"}, c.ArchiveExtensions)
	assert.Equal(t, 3, c.MaxUnwrap)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestWithMaxUnwrap_NegativeResetsToDefault(t *testing.T) {
	t.Parallel()

	c := config.NewConfig(config.WithMaxUnwrap(-5))
	assert.Equal(t, config.DefaultMaxUnwrap, c.MaxUnwrap)
}

func TestWithWorkers_NonPositiveResetsToDefault(t *testing.T) {
	t.Parallel()

	c := config.NewConfig(config.WithWorkers(0))
	assert.Equal(t, config.DefaultWorkers, c.Workers)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		opt   config.Option
		field string
	}{
		{name: "empty marker", opt: config.WithMarker(" "), field: "marker"},
		{name: "empty suffix", opt: config.WithTypeSuffix(""), field: "type_suffix"},
		{name: "suffix without dot", opt: config.WithTypeSuffix("class"), field: "type_suffix"},
		{name: "archive ext without dot", opt: config.WithArchiveExtensions("zip"), field: "archive_extensions"},
		{name: "unknown log level", opt: config.WithLogLevel("loud"), field: "log.level"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := config.Validate(config.NewConfig(tc.opt))

			var fe config.FieldError
			if assert.ErrorAs(t, err, &fe) {
				assert.Equal(t, tc.field, fe.Field)
			}
		})
	}
}
