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

package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/logging"
)

func TestInitLogger_DefaultsToStdout(t *testing.T) {
	t.Parallel()

	logger, err := logging.InitLogger(apis.LogConfig{Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, logger.Out)
}

func TestInitLogger_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := logging.InitLogger(apis.LogConfig{Level: "chatty"})
	require.Error(t, err)
}

func TestInitLogger_CreatesRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "nucleus.log")
	logger, err := logging.InitLogger(apis.LogConfig{Level: "debug", FilePath: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Info("test")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFields(t *testing.T) {
	t.Parallel()

	root := apis.ModuleRoot{
		Locator:    "/opt/a/component.properties",
		Protocol:   apis.ProtocolFilesystem,
		Properties: map[string]string{"name": "billing"},
	}

	rf := logging.RootFields(root)
	assert.Equal(t, "/opt/a/component.properties", rf["root"])
	assert.Equal(t, "filesystem", rf["protocol"])
	assert.Equal(t, "billing", rf["component"])

	assert.Equal(t, "p1", logging.PassFields("p1")["pass_id"])
	assert.Equal(t, "a.B", logging.TypeFields("a.B")["type"])
}

type named struct{ name string }

func (n named) EntityName() string { return n.name }

type anonymous struct{}

func TestObserverFields(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme.loader", logging.ObserverFields(named{name: "acme.loader"})["observer"])
	assert.Equal(t, "logging_test.named", logging.ObserverFields(named{})["observer"])
	assert.Equal(t, "*logging_test.anonymous", logging.ObserverFields(&anonymous{})["observer"])
}
