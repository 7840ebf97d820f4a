package builtins

import (
	"talon/pkg/vm"
)

// FunctionInitializer implements the Function builtin
type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) InitRuntime(ctx *RuntimeContext) error {
	// Function.prototype inherits from Object.prototype
	funcProto := vm.NewObject(ctx.ObjectPrototype).AsPlainObject()
	reg := ctx.Errors

	funcProto.SetOwnNonEnumerable("call", vm.NewNativeFunction(1, true, "call", throwing(reg, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		thisArg := vm.Undefined
		if len(args) > 0 {
			thisArg = args[0]
		}
		var rest []vm.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return vm.Call(this, thisArg, rest)
	})))

	funcProto.SetOwnNonEnumerable("apply", vm.NewNativeFunction(2, false, "apply", throwing(reg, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		thisArg := vm.Undefined
		if len(args) > 0 {
			thisArg = args[0]
		}
		var callArgs []vm.Value
		if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
			arr := args[1].AsArray()
			if arr == nil {
				return vm.Undefined, vm.NewTypeError("CreateListFromArrayLike called on non-object")
			}
			// Copy so the callee never aliases the caller's array storage
			callArgs = append([]vm.Value(nil), arr.Elements()...)
		}
		return vm.Call(this, thisArg, callArgs)
	})))

	funcProto.SetOwnNonEnumerable("bind", vm.NewNativeFunction(1, true, "bind", throwing(reg, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsCallable() {
			return vm.Undefined, vm.NewTypeError("Bind must be called on a function")
		}
		boundThis := vm.Undefined
		if len(args) > 0 {
			boundThis = args[0]
		}
		boundArgs := make([]vm.Value, 0)
		if len(args) > 1 {
			boundArgs = append(boundArgs, args[1:]...)
		}
		target := this
		name := "bound " + vm.FunctionName(target)
		return vm.NewNativeFunction(-1, true, name, throwing(reg, func(_ vm.Value, callArgs []vm.Value) (vm.Value, error) {
			merged := make([]vm.Value, 0, len(boundArgs)+len(callArgs))
			merged = append(merged, boundArgs...)
			merged = append(merged, callArgs...)
			return vm.Call(target, boundThis, merged)
		})), nil
	})))

	funcProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", throwing(reg, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsCallable() {
			return vm.Undefined, vm.NewTypeError("Function.prototype.toString requires that 'this' be a Function")
		}
		return vm.NewString(this.ToString()), nil
	})))

	protoValue := vm.NewValueFromPlainObject(funcProto)

	// The Function constructor: compiling source text is out of scope, so
	// calling it is an error, but the constructor object still anchors
	// Function.prototype.
	funcCtor := vm.NewNativeFunctionWithProps(1, true, "Function", throwing(reg, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, vm.NewTypeError("Function constructor is not supported")
	}))
	funcCtor.AsNativeFunctionWithProps().Properties.SetOwnNonEnumerable("prototype", protoValue)
	funcProto.SetOwnNonEnumerable("constructor", funcCtor)

	ctx.FunctionPrototype = protoValue

	return ctx.DefineGlobal("Function", funcCtor)
}
