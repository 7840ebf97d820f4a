package builtins

import (
	"talon/pkg/vm"
)

// ErrorInitializer installs the Error constructor and its standard
// subclasses (TypeError, RangeError, ReferenceError, SyntaxError).
type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string {
	return "Error"
}

func (e *ErrorInitializer) Priority() int {
	return PriorityError
}

func (e *ErrorInitializer) InitRuntime(ctx *RuntimeContext) error {
	// Error.prototype inherits from Object.prototype
	errorProto := vm.NewObject(ctx.ObjectPrototype).AsPlainObject()
	errorProto.SetOwnNonEnumerable("name", vm.NewString("Error"))
	errorProto.SetOwnNonEnumerable("message", vm.NewString(""))
	errorProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", throwing(ctx.Errors, errorToStringImpl)))

	errorProtoValue := vm.NewValueFromPlainObject(errorProto)
	errorCtor := newErrorConstructor("Error", errorProtoValue)
	errorProto.SetOwnNonEnumerable("constructor", errorCtor)

	if ctx.Errors != nil {
		ctx.Errors.Register("Error", errorProtoValue)
	}
	ctx.ErrorPrototype = errorProtoValue

	if err := ctx.DefineGlobal("Error", errorCtor); err != nil {
		return err
	}

	// Subclasses share the shape: a prototype inheriting from
	// Error.prototype with its own name, and a constructor
	for _, name := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError"} {
		subProto := vm.NewObject(errorProtoValue).AsPlainObject()
		subProto.SetOwnNonEnumerable("name", vm.NewString(name))
		subProto.SetOwnNonEnumerable("message", vm.NewString(""))

		subProtoValue := vm.NewValueFromPlainObject(subProto)
		subCtor := newErrorConstructor(name, subProtoValue)
		subProto.SetOwnNonEnumerable("constructor", subCtor)

		if ctx.Errors != nil {
			ctx.Errors.Register(name, subProtoValue)
		}

		if err := ctx.DefineGlobal(name, subCtor); err != nil {
			return err
		}
	}

	return nil
}

func newErrorConstructor(name string, proto vm.Value) vm.Value {
	ctor := vm.NewNativeFunctionWithProps(1, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj := vm.NewObject(proto).AsPlainObject()
		if len(args) > 0 && !args[0].IsUndefined() {
			obj.SetOwnNonEnumerable("message", vm.NewString(args[0].ToString()))
		}
		return vm.NewValueFromPlainObject(obj), nil
	})
	ctor.AsNativeFunctionWithProps().Properties.SetOwnNonEnumerable("prototype", proto)
	return ctor
}

func errorToStringImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	obj := this.AsPlainObject()
	if obj == nil {
		return vm.Undefined, vm.NewTypeError("Error.prototype.toString requires that 'this' be an Object")
	}
	name := "Error"
	if v, ok := obj.Get("name"); ok && !v.IsUndefined() {
		name = v.ToString()
	}
	message := ""
	if v, ok := obj.Get("message"); ok && !v.IsUndefined() {
		message = v.ToString()
	}
	if message == "" {
		return vm.NewString(name), nil
	}
	if name == "" {
		return vm.NewString(message), nil
	}
	return vm.NewString(name + ": " + message), nil
}
