// Package runtime assembles a usable global environment: it owns the global
// object and runs the standard builtin initializers against it in priority
// order.
package runtime

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"talon/pkg/builtins"
	"talon/pkg/vm"
)

// Runtime is one initialized global environment. It is not internally
// synchronized; concurrent mutation of the object graph needs external
// locking.
type Runtime struct {
	global    *vm.PlainObject
	globalVal vm.Value
	stdout    io.Writer
	logger    zerolog.Logger
	errors    *vm.ErrorPrototypes

	// Prototypes published by the initializers
	ObjectPrototype   vm.Value
	FunctionPrototype vm.Value
	ErrorPrototype    vm.Value
}

// Option configures a Runtime before its initializers run.
type Option func(*Runtime)

// WithStdout redirects the print builtin.
func WithStdout(w io.Writer) Option {
	return func(r *Runtime) { r.stdout = w }
}

// WithLogger enables structured logging of runtime initialization.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// New builds a Runtime and runs the standard initializers. A failing
// initializer aborts construction.
func New(opts ...Option) (*Runtime, error) {
	globalVal := vm.NewObject(vm.Null)
	r := &Runtime{
		global:    globalVal.AsPlainObject(),
		globalVal: globalVal,
		stdout:    os.Stdout,
		logger:    zerolog.Nop(),
		errors:    vm.NewErrorPrototypes(),
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx := &builtins.RuntimeContext{
		DefineGlobal: func(name string, value vm.Value) error {
			r.global.SetOwnNonEnumerable(name, value)
			return nil
		},
		GetGlobal: func(name string) (vm.Value, bool) {
			return r.global.Get(name)
		},
		GlobalObject: globalVal,
		Stdout:       r.stdout,
		Errors:       r.errors,
	}

	for _, init := range builtins.GetStandardInitializers() {
		r.logger.Debug().Str("builtin", init.Name()).Int("priority", init.Priority()).Msg("initializing builtin")
		if err := init.InitRuntime(ctx); err != nil {
			r.logger.Error().Err(err).Str("builtin", init.Name()).Msg("builtin initialization failed")
			return nil, fmt.Errorf("initializing builtin %s: %w", init.Name(), err)
		}
		// Pick up prototypes as soon as their initializers publish them
		r.ObjectPrototype = ctx.ObjectPrototype
		r.FunctionPrototype = ctx.FunctionPrototype
		r.ErrorPrototype = ctx.ErrorPrototype
	}

	// The global object itself inherits from Object.prototype
	r.global.SetPrototype(r.ObjectPrototype)

	r.logger.Debug().Msg("runtime ready")
	return r, nil
}

// Errors returns this runtime's error-prototype registry, so embedders can
// link exceptions from direct vm calls via Adopt.
func (r *Runtime) Errors() *vm.ErrorPrototypes {
	return r.errors
}

// Global returns the global object.
func (r *Runtime) Global() vm.Value {
	return r.globalVal
}

// DefineGlobal installs a value on the global object.
func (r *Runtime) DefineGlobal(name string, value vm.Value) {
	r.global.SetOwnNonEnumerable(name, value)
}

// GetGlobal looks up a global by name (own or inherited).
func (r *Runtime) GetGlobal(name string) (vm.Value, bool) {
	return r.global.Get(name)
}

// GetBuiltin resolves a dotted path like "Object.defineProperties" against
// the global object. Convenience for embedders and tests.
func (r *Runtime) GetBuiltin(owner, name string) (vm.Value, bool) {
	ctor, ok := r.GetGlobal(owner)
	if !ok {
		return vm.Undefined, false
	}
	if props := ctor.AsNativeFunctionWithProps(); props != nil {
		return props.Properties.GetOwn(name)
	}
	return vm.GetProperty(ctor, name)
}
