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
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/errors"
)

// Load reads a configuration file (any format viper understands), fills in
// defaults for missing keys and validates the result.
func Load(path string) (apis.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return apis.Config{}, errors.WithStackTraceAndPrefix(err, "nucleus(config): read %s", path)
	}

	var cfg apis.Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(listDecodeHook())); err != nil {
		return apis.Config{}, errors.WithStackTraceAndPrefix(err, "nucleus(config): decode %s", path)
	}

	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays NUCLEUS_* environment variables onto cfg and validates the result.
// Unset variables leave the corresponding fields untouched.
func FromEnv(cfg apis.Config) (apis.Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return apis.Config{}, errors.WithStackTraceAndPrefix(err, "nucleus(config): environment")
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("marker", def.Marker)
	v.SetDefault("type_suffix", def.TypeSuffix)
	v.SetDefault("search_paths", []string{})
	v.SetDefault("archive_extensions", def.ArchiveExtensions)
	v.SetDefault("max_unwrap", def.MaxUnwrap)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file_path", def.Log.FilePath)
	v.SetDefault("log.max_size", def.Log.MaxSize)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.compress", def.Log.Compress)
}

// listDecodeHook trims whitespace around list items and drops empty ones,
// so "a, b," in a properties file decodes to [a b].
func listDecodeHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf([]string(nil))

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		raw, _ := data.(string)
		out := make([]string, 0)
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	}
}
