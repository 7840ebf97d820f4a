package builtins

import (
	"io"

	"talon/pkg/vm"
)

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Object", "Error")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitRuntime creates runtime values and installs them on the global object
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	// Define a global value
	DefineGlobal func(name string, value vm.Value) error

	// Get a previously defined global
	GetGlobal func(name string) (vm.Value, bool)

	// The global object itself (for globalThis)
	GlobalObject vm.Value

	// Where print writes
	Stdout io.Writer

	// This runtime's error-prototype registry; exceptions raised by its
	// builtins link against it
	Errors *vm.ErrorPrototypes

	// Built-in prototypes (set as initializers run)
	ObjectPrototype   vm.Value
	FunctionPrototype vm.Value
	ErrorPrototype    vm.Value
}

// throwing decorates a native function so exceptions it raises adopt the
// registry's error prototypes before reaching the caller.
func throwing(reg *vm.ErrorPrototypes, fn vm.NativeFn) vm.NativeFn {
	return func(this vm.Value, args []vm.Value) (vm.Value, error) {
		result, err := fn(this, args)
		if err != nil {
			return result, reg.Adopt(err)
		}
		return result, nil
	}
}

// Priority constants for initialization order
const (
	PriorityObject   = 0   // Object must be first (base prototype)
	PriorityFunction = 1   // Function second (inherits from Object)
	PriorityError    = 2   // Error hierarchy (inherits from Object)
	PriorityGlobals  = 100 // Global constants and functions
)
