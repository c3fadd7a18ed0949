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

package nucleus

import (
	"context"
	"errors"
	"os"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/builder"
	"dirpx.dev/nucleus/config"
	"dirpx.dev/nucleus/discovery"
	nerrors "dirpx.dev/nucleus/errors"
	"dirpx.dev/nucleus/logging"
	"dirpx.dev/nucleus/registry"
	"dirpx.dev/nucleus/resolver"
	"dirpx.dev/nucleus/strategy"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("nucleus: builder returned nil registry")
	// ErrNilEnvironment is returned when a builder returns a nil environment.
	ErrNilEnvironment = errors.New("nucleus: builder returned nil environment")
	// ErrNilEnumerator is returned when a builder returns a nil enumerator.
	ErrNilEnumerator = errors.New("nucleus: builder returned nil enumerator")
)

// Option configures a Nucleus.
type Option func(*options)

type options struct {
	bld     apis.Builder
	sources []apis.TypeResolver
	log     logrus.FieldLogger
	fs      afero.Fs
}

// WithBuilder replaces the component builder. It takes precedence over WithFS.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) {
		o.bld = b
	}
}

// WithResolver sets the type resolvers consulted in order for candidate names.
// Defaults to the process-wide strategy table.
func WithResolver(sources ...apis.TypeResolver) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}

// WithLogger sets the logger. Defaults to a logger built from Config.Log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithFS sets the filesystem module roots are read from. Defaults to the OS filesystem.
func WithFS(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// Nucleus is a discovery coordinator bound to the registry its observers fill.
type Nucleus struct {
	cfg   apis.Config
	opts  options
	reg   apis.Registry
	env   apis.Environment
	enum  apis.Enumerator
	res   apis.TypeResolver
	coord *discovery.Coordinator
}

// New assembles a Nucleus for cfg. Nothing is discovered until Init or the
// first Find* call.
func New(cfg apis.Config, opts ...Option) *Nucleus {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return build(cfg, o, nil)
}

// build assembles a Nucleus, migrating the entries of prev when non-nil.
func build(cfg apis.Config, o options, prev apis.Registry) *Nucleus {
	n := assemble(cfg, o, prev)
	n.coord = discovery.New(n.env, n.enum, n.res,
		discovery.WithLogger(n.opts.log),
		discovery.WithRegistry(n.reg),
		discovery.WithMarker(cfg.Marker),
		discovery.WithTypeSuffix(cfg.TypeSuffix),
		discovery.WithWorkers(cfg.Workers),
	)
	return n
}

// assemble builds every component but the coordinator.
func assemble(cfg apis.Config, o options, prev apis.Registry) *Nucleus {
	if o.log == nil {
		o.log = newLogger(cfg.Log)
	}
	if o.bld == nil {
		o.bld = builder.New(o.fs)
	}
	res := resolver.New(o.sources...)
	if len(o.sources) == 0 {
		res = resolver.New(strategy.Default())
	}

	reg := o.bld.BuildRegistry(cfg, prev)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	env := o.bld.BuildEnvironment(cfg, o.log)
	if env == nil {
		panic(ErrNilEnvironment)
	}
	enum := o.bld.BuildEnumerator(cfg)
	if enum == nil {
		panic(ErrNilEnumerator)
	}

	return &Nucleus{
		cfg:  cfg,
		opts: o,
		reg:  reg,
		env:  env,
		enum: enum,
		res:  res,
	}
}

func newLogger(cfg apis.LogConfig) logrus.FieldLogger {
	log, err := logging.InitLogger(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Falling back to the standard logger")
		return logrus.StandardLogger()
	}
	return log
}

// Config returns the configuration n was built with.
func (n *Nucleus) Config() apis.Config {
	return n.cfg
}

// Init runs the discovery pass unless it already ran.
func (n *Nucleus) Init(ctx context.Context) {
	n.coord.Init(ctx)
}

// Register adds v as a part of capability t. It never triggers discovery, so
// load observers may call it from Handle.
func (n *Nucleus) Register(t reflect.Type, v any) error {
	return n.reg.Register(t, v)
}

// Find* must not be called from an observer's Handle: they wait for the pass
// that is calling Handle. Observers read through apis.RegistryAware instead.

// FindPart initializes n if needed and returns the primary part of t.
func (n *Nucleus) FindPart(t reflect.Type) (any, bool, error) {
	n.Init(context.Background())
	return n.reg.FindPart(t)
}

// FindParts initializes n if needed and returns the parts of t that satisfy t.
func (n *Nucleus) FindParts(t reflect.Type) []any {
	n.Init(context.Background())
	return n.reg.FindParts(t)
}

// FindAll initializes n if needed and returns every part registered for t.
func (n *Nucleus) FindAll(t reflect.Type) []any {
	n.Init(context.Background())
	return n.reg.FindAll(t)
}

// Registry returns the registry without triggering discovery.
func (n *Nucleus) Registry() apis.Registry {
	return n.reg
}

// Coordinator returns the discovery coordinator.
func (n *Nucleus) Coordinator() *discovery.Coordinator {
	return n.coord
}

// buildMu serializes writers so a half-built default is never published.
var buildMu sync.Mutex

// st is the process-wide Nucleus; nil until first use.
var st atomic.Pointer[Nucleus]

// EnvConfigFile names the environment variable holding the path of a
// configuration file for the process-wide Nucleus.
const EnvConfigFile = "NUCLEUS_CONFIG"

// Default returns the process-wide Nucleus, building it on first use from
// config.DefaultConfig, or the file named by NUCLEUS_CONFIG, overlaid with
// NUCLEUS_* environment variables.
func Default() *Nucleus {
	if n := st.Load(); n != nil {
		return n
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	if n := st.Load(); n != nil {
		return n
	}
	n := New(defaultConfig())
	st.Store(n)
	return n
}

func defaultConfig() apis.Config {
	base := config.DefaultConfig()
	if path := os.Getenv(EnvConfigFile); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("Ignoring unreadable configuration file")
		} else {
			base = loaded
		}
	}

	cfg, err := config.FromEnv(base)
	if err != nil {
		logrus.WithError(err).Warn("Ignoring invalid NUCLEUS_* environment")
		return base
	}
	return cfg
}

// SetDefault replaces the process-wide Nucleus. A nil n makes the next
// Default call build a fresh one.
func SetDefault(n *Nucleus) {
	buildMu.Lock()
	defer buildMu.Unlock()

	st.Store(n)
}

// SetConfig rebuilds the process-wide Nucleus for cfg with the options of the
// current one and migrates its registered parts. Discovery runs at most once
// per process: a pass that has not started is dropped in favour of one for cfg;
// a started pass is waited for and its coordinator kept, so root settings in
// cfg no longer apply. SetConfig must not be called from Handle.
func SetConfig(cfg apis.Config) *Nucleus {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	var n *Nucleus
	switch {
	case old == nil:
		n = New(cfg)
	case old.coord.Preempt():
		n = build(cfg, old.opts, old.reg)
	default:
		n = assemble(cfg, old.opts, old.reg)
		n.coord = old.coord
	}
	st.Store(n)
	return n
}

// Init runs the process-wide discovery pass unless it already ran.
func Init(ctx context.Context) {
	Default().Init(ctx)
}

// Register adds v as a part of capability T on the process-wide Nucleus.
func Register[T any](v any) error {
	return Default().Register(reflect.TypeOf((*T)(nil)).Elem(), v)
}

// RegisterType adds v as a part of capability t on the process-wide Nucleus.
func RegisterType(t reflect.Type, v any) error {
	return Default().Register(t, v)
}

// FindPart returns the primary part of capability T, initializing the
// process-wide Nucleus if needed.
func FindPart[T any]() (T, bool, error) {
	var zero T

	v, ok, err := Default().FindPart(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil || !ok {
		return zero, ok, err
	}
	part, ok := v.(T)
	if !ok {
		return zero, false, nerrors.WithStackTraceAndPrefix(registry.ErrNonConformingPart, "%T is not a %s", v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return part, true, nil
}

// FindParts returns the parts of capability T, initializing the process-wide
// Nucleus if needed.
func FindParts[T any]() []T {
	all := Default().FindParts(reflect.TypeOf((*T)(nil)).Elem())
	parts := make([]T, 0, len(all))
	for _, v := range all {
		if part, ok := v.(T); ok {
			parts = append(parts, part)
		}
	}
	return parts
}

// FindAll returns every part registered for capability T, initializing the
// process-wide Nucleus if needed.
func FindAll[T any]() []any {
	return Default().FindAll(reflect.TypeOf((*T)(nil)).Elem())
}
