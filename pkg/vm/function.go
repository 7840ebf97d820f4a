package vm

import (
	"unsafe"
)

// NativeFn is the signature of a native Go function callable from the
// runtime. `this` is passed explicitly because there is no interpreter
// frame stack to thread it through.
type NativeFn func(this Value, args []Value) (Value, error)

// NativeFunctionObject represents a native Go function callable from Talon.
type NativeFunctionObject struct {
	Object
	Arity    int
	Variadic bool
	Name     string
	Fn       NativeFn
}

// NativeFunctionObjectWithProps is a native function that also carries own
// properties (constructors with statics and a prototype link).
type NativeFunctionObjectWithProps struct {
	Object
	Arity      int
	Variadic   bool
	Name       string
	Fn         NativeFn
	Properties *PlainObject
}

func NewNativeFunction(arity int, variadic bool, name string, fn NativeFn) Value {
	return Value{typ: TypeNativeFunction, obj: unsafe.Pointer(&NativeFunctionObject{
		Arity:    arity,
		Variadic: variadic,
		Name:     name,
		Fn:       fn,
	})}
}

func NewNativeFunctionWithProps(arity int, variadic bool, name string, fn NativeFn) Value {
	props := NewObject(Null).AsPlainObject()
	return Value{typ: TypeNativeFunctionWithProps, obj: unsafe.Pointer(&NativeFunctionObjectWithProps{
		Arity:      arity,
		Variadic:   variadic,
		Name:       name,
		Fn:         fn,
		Properties: props,
	})}
}

// Call invokes a callable value with the given `this` and arguments.
// Non-callable values produce a TypeError.
func Call(fn Value, this Value, args []Value) (Value, error) {
	switch fn.typ {
	case TypeNativeFunction:
		return fn.AsNativeFunction().Fn(this, args)
	case TypeNativeFunctionWithProps:
		return fn.AsNativeFunctionWithProps().Fn(this, args)
	default:
		return Undefined, NewTypeError(fn.ToString() + " is not a function")
	}
}

// FunctionName returns the name of a callable value, or "" for
// non-callables.
func FunctionName(fn Value) string {
	switch fn.typ {
	case TypeNativeFunction:
		return fn.AsNativeFunction().Name
	case TypeNativeFunctionWithProps:
		return fn.AsNativeFunctionWithProps().Name
	default:
		return ""
	}
}
