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

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/nucleus/apis"
	"dirpx.dev/nucleus/config"
	"dirpx.dev/nucleus/enumerator"
	"dirpx.dev/nucleus/errors"
	"dirpx.dev/nucleus/logging"
)

// TracerName names the tracer discovery spans are recorded on.
const TracerName = "dirpx.dev/nucleus/discovery"

var observerType = reflect.TypeOf((*apis.LoadObserver)(nil)).Elem()

// Report summarizes a finished pass.
type Report struct {
	// PassID correlates the log lines and spans of the pass.
	PassID string
	// Roots are the module roots found, in processing order.
	Roots []apis.ModuleRoot
	// Classes are the resolved types, in resolution order.
	Classes []apis.ResolvedType
	// Observers are the instantiated load observers, in instantiation order.
	Observers []apis.LoadObserver
	// Invocations counts Handle calls made, failed ones included.
	Invocations int
	// Warnings aggregates every recoverable failure of the pass; nil when clean.
	Warnings error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMarker sets the marker resource name that identifies module roots.
func WithMarker(marker string) Option {
	return func(c *Coordinator) {
		c.marker = marker
	}
}

// WithTypeSuffix sets the suffix of type-bearing member paths.
func WithTypeSuffix(suffix string) Option {
	return func(c *Coordinator) {
		c.suffix = suffix
	}
}

// WithWorkers bounds concurrent root enumeration. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		c.workers = max(n, 1)
	}
}

// WithRegistry sets the registry handed to observers implementing
// apis.RegistryAware.
func WithRegistry(reg apis.Registry) Option {
	return func(c *Coordinator) {
		c.reg = reg
	}
}

// Coordinator runs the one-time discovery pass.
//
// The pass runs at most once. Concurrent callers of Init block until it has
// finished; once initialized, Init is a single atomic load. The gate is not
// reentrant: observers must not call Init, directly or through a lazily
// initializing read, from Handle. Observers that need the registry implement
// apis.RegistryAware and use the registry they are handed.
type Coordinator struct {
	env  apis.Environment
	enum apis.Enumerator
	res  apis.TypeResolver
	reg  apis.Registry

	marker  string
	suffix  string
	workers int
	log     logrus.FieldLogger

	// mu serializes the pass; state publishes its progress.
	mu    sync.Mutex
	state atomic.Int32

	// written only while mu is held and state < StateInitialized.
	classes   []apis.ResolvedType
	observers []apis.LoadObserver
	report    Report
}

// New returns a Coordinator that finds roots with env, lists them with enum and
// resolves candidate names with res.
func New(env apis.Environment, enum apis.Enumerator, res apis.TypeResolver, opts ...Option) *Coordinator {
	c := &Coordinator{
		env:     env,
		enum:    enum,
		res:     res,
		marker:  config.DefaultMarker,
		suffix:  config.DefaultTypeSuffix,
		workers: config.DefaultWorkers,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current InitializationState.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Init runs the discovery pass unless it already ran. No failure escapes;
// they are logged and collected in Report().Warnings.
func (c *Coordinator) Init(ctx context.Context) {
	if c.State() == StateInitialized {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == StateInitialized {
		return
	}
	c.run(ctx)
	c.state.Store(int32(StateInitialized))
}

// Preempt makes sure no pass runs after it returns. It reports true when the
// pass had not started and now never will; the coordinator is then initialized
// with an empty report. Otherwise it waits for the running pass to finish and
// reports false. Like Init, it must not be called from Handle.
func (c *Coordinator) Preempt() bool {
	if c.State() == StateInitialized {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == StateInitialized {
		return false
	}
	c.state.Store(int32(StateInitialized))
	return true
}

// Classes returns the resolved types once initialized, nil before.
func (c *Coordinator) Classes() []apis.ResolvedType {
	if c.State() != StateInitialized {
		return nil
	}
	return append([]apis.ResolvedType(nil), c.classes...)
}

// Observers returns the instantiated observers once initialized, nil before.
func (c *Coordinator) Observers() []apis.LoadObserver {
	if c.State() != StateInitialized {
		return nil
	}
	return append([]apis.LoadObserver(nil), c.observers...)
}

// Report returns the pass summary; ok is false until initialized.
func (c *Coordinator) Report() (Report, bool) {
	if c.State() != StateInitialized {
		return Report{}, false
	}
	r := c.report
	r.Roots = append([]apis.ModuleRoot(nil), r.Roots...)
	r.Classes = c.Classes()
	r.Observers = c.Observers()
	return r, true
}

// pass carries per-run bookkeeping.
type pass struct {
	log      logrus.FieldLogger
	warnings *errors.MultiError
}

func (p *pass) warnf(log logrus.FieldLogger, err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(msg + ": " + err.Error())
	log.WithField("stack", errors.StackTrace(err)).Debug(msg)
	p.warnings = p.warnings.Append(err)
}

func (c *Coordinator) run(ctx context.Context) {
	passID := uuid.NewString()
	p := &pass{log: c.log.WithFields(logging.PassFields(passID))}

	ctx, span := otel.Tracer(TracerName).Start(ctx, "nucleus.discovery",
		trace.WithAttributes(attribute.String("pass_id", passID)))
	defer span.End()

	c.state.Store(int32(StateDiscovering))
	roots := c.discover(ctx, p)

	c.state.Store(int32(StateNotifying))
	invocations := c.notify(p)

	c.report = Report{
		PassID:      passID,
		Roots:       roots,
		Invocations: invocations,
		Warnings:    p.warnings.ErrorOrNil(),
	}

	span.SetAttributes(
		attribute.Int("roots", len(roots)),
		attribute.Int("classes", len(c.classes)),
		attribute.Int("observers", len(c.observers)),
		attribute.Int("warnings", p.warnings.Len()),
	)
	for _, w := range p.warnings.WrappedErrors() {
		span.RecordError(w)
	}
	if p.warnings.Len() > 0 {
		span.SetStatus(codes.Error, "discovery finished with warnings")
	}
	p.log.WithFields(logrus.Fields{
		"roots":     len(roots),
		"classes":   len(c.classes),
		"observers": len(c.observers),
		"warnings":  p.warnings.Len(),
	}).Info("Discovery finished")
}

// discover fills classes and observers and returns the roots processed.
func (c *Coordinator) discover(ctx context.Context, p *pass) []apis.ModuleRoot {
	roots, err := c.env.Roots(ctx, c.marker)
	if err != nil {
		p.warnf(p.log, err, "Failed to discover components")
		return nil
	}

	members, failures := c.enumerate(ctx, roots)

	for i, root := range roots {
		rlog := p.log.WithFields(logging.RootFields(root))
		rlog.Info("Loading component: " + root.String())

		if failures[i] != nil {
			p.warnf(rlog, failures[i], "Failed to enumerate component")
			continue
		}
		for _, name := range enumerator.TypeNames(members[i], c.suffix) {
			c.load(p, rlog.WithFields(logging.TypeFields(name)), name)
		}
	}
	return roots
}

// enumerate lists every root, up to c.workers at a time. Results are indexed
// like roots so processing order does not depend on scheduling.
func (c *Coordinator) enumerate(ctx context.Context, roots []apis.ModuleRoot) ([][]string, []error) {
	members := make([][]string, len(roots))
	failures := make([]error, len(roots))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			_, span := otel.Tracer(TracerName).Start(ctx, "nucleus.enumerate",
				trace.WithAttributes(
					attribute.String("root", root.Locator),
					attribute.String("protocol", string(root.Protocol)),
				))
			defer span.End()

			paths, err := c.enum.Enumerate(root)
			if err != nil {
				span.RecordError(err)
			}
			members[i], failures[i] = paths, err
			return nil
		})
	}
	_ = g.Wait()

	return members, failures
}

// load resolves name and, for concrete observer types, builds the observer.
func (c *Coordinator) load(p *pass, log logrus.FieldLogger, name string) {
	log.Debug("Found type")

	rt, err := c.res.Resolve(name)
	if err != nil {
		if errors.Is(err, apis.ErrDependencyMissing) {
			p.warnf(log, err, "Failed to load dependent type %s", name)
		} else {
			p.warnf(log, err, "Failed to load type %s", name)
		}
		return
	}
	c.classes = append(c.classes, rt)

	if rt.Abstract() || !rt.Satisfies(observerType) {
		return
	}
	obs, err := instantiate(rt, c.reg)
	if err != nil {
		p.warnf(log, err, "Error creating load observer %s", name)
		return
	}
	c.observers = append(c.observers, obs)
}

func instantiate(rt apis.ResolvedType, reg apis.Registry) (obs apis.LoadObserver, err error) {
	defer errors.Recover(func(cause error) { err = cause })

	v, err := rt.New()
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	obs, ok := v.(apis.LoadObserver)
	if !ok || obs == nil {
		return nil, errors.Errorf("nucleus(discovery): %s constructed %T, not a load observer", rt.Name(), v)
	}
	if aware, ok := obs.(apis.RegistryAware); ok && reg != nil {
		aware.UseRegistry(reg)
	}
	return obs, nil
}

// notify hands every class to every observer and returns the number of calls.
func (c *Coordinator) notify(p *pass) int {
	invocations := 0
	for _, rt := range c.classes {
		for _, obs := range c.observers {
			invocations++
			if err := invoke(obs, rt); err != nil {
				fields := logging.ObserverFields(obs)
				p.warnf(p.log.WithFields(fields).WithFields(logging.TypeFields(rt.Name())),
					err, "Failed to call the load observer %s for %s", fields["observer"], rt.Name())
			}
		}
	}
	return invocations
}

func invoke(obs apis.LoadObserver, rt apis.ResolvedType) (err error) {
	defer errors.Recover(func(cause error) { err = cause })
	return obs.Handle(rt)
}
