package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/pkg/vm"
)

// argsEcho returns this plus all arguments as an array, for observing how
// the Function.prototype combinators forward them.
func argsEcho() vm.Value {
	return vm.NewNativeFunction(-1, true, "echo", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		out := vm.NewArray()
		arr := out.AsArray()
		arr.Append(this)
		for _, a := range args {
			arr.Append(a)
		}
		return out, nil
	})
}

func protoMethod(t *testing.T, ctx *RuntimeContext, name string) vm.Value {
	t.Helper()
	fn, ok := vm.GetOwnProperty(ctx.FunctionPrototype, name)
	require.True(t, ok, "Function.prototype.%s missing", name)
	return fn
}

func TestFunctionPrototypeCall(t *testing.T) {
	ctx, _ := newTestContext(t)
	callMethod := protoMethod(t, ctx, "call")

	thisArg := vm.NewString("ctx")
	result, err := vm.Call(callMethod, argsEcho(), []vm.Value{thisArg, vm.NumberValue(1), vm.NumberValue(2)})
	require.NoError(t, err)

	arr := result.AsArray()
	require.NotNil(t, arr)
	require.Equal(t, 3, arr.Length())
	assert.Equal(t, "ctx", arr.Get(0).ToString())
	assert.Equal(t, "1", arr.Get(1).ToString())
	assert.Equal(t, "2", arr.Get(2).ToString())
}

func TestFunctionPrototypeApply(t *testing.T) {
	ctx, _ := newTestContext(t)
	apply := protoMethod(t, ctx, "apply")

	argList := vm.NewArray()
	argList.AsArray().Append(vm.NumberValue(10))
	argList.AsArray().Append(vm.NumberValue(20))

	result, err := vm.Call(apply, argsEcho(), []vm.Value{vm.Null, argList})
	require.NoError(t, err)
	arr := result.AsArray()
	require.Equal(t, 3, arr.Length())
	assert.Equal(t, "10", arr.Get(1).ToString())
	assert.Equal(t, "20", arr.Get(2).ToString())

	// apply with no argument list calls with zero args
	result, err = vm.Call(apply, argsEcho(), []vm.Value{vm.Null})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AsArray().Length())

	// a non-array argument list is a TypeError
	_, err = vm.Call(apply, argsEcho(), []vm.Value{vm.Null, vm.NumberValue(1)})
	require.Error(t, err)
}

func TestFunctionPrototypeApplyCopiesArguments(t *testing.T) {
	ctx, _ := newTestContext(t)
	apply := protoMethod(t, ctx, "apply")

	mutator := vm.NewNativeFunction(-1, true, "mutator", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		for i := range args {
			args[i] = vm.Null
		}
		return vm.Undefined, nil
	})

	argList := vm.NewArray()
	argList.AsArray().Append(vm.NumberValue(1))
	argList.AsArray().Append(vm.NumberValue(2))

	_, err := vm.Call(apply, mutator, []vm.Value{vm.Null, argList})
	require.NoError(t, err)

	// Callee writes must not reach the caller's array storage
	arr := argList.AsArray()
	assert.True(t, arr.Get(0).StrictlyEquals(vm.NumberValue(1)))
	assert.True(t, arr.Get(1).StrictlyEquals(vm.NumberValue(2)))
}

func TestFunctionPrototypeBind(t *testing.T) {
	ctx, _ := newTestContext(t)
	bind := protoMethod(t, ctx, "bind")

	thisArg := vm.NewString("bound-this")
	bound, err := vm.Call(bind, argsEcho(), []vm.Value{thisArg, vm.NumberValue(1)})
	require.NoError(t, err)
	require.True(t, bound.IsCallable())
	assert.Equal(t, "bound echo", vm.FunctionName(bound))

	// Bound args come first, call args after; this is fixed
	result, err := vm.Call(bound, vm.NewString("ignored"), []vm.Value{vm.NumberValue(2)})
	require.NoError(t, err)
	arr := result.AsArray()
	require.Equal(t, 3, arr.Length())
	assert.Equal(t, "bound-this", arr.Get(0).ToString())
	assert.Equal(t, "1", arr.Get(1).ToString())
	assert.Equal(t, "2", arr.Get(2).ToString())

	// bind on a non-function is a TypeError
	_, err = vm.Call(bind, vm.NumberValue(1), nil)
	require.Error(t, err)
}

func TestFunctionPrototypeToString(t *testing.T) {
	ctx, _ := newTestContext(t)
	toString := protoMethod(t, ctx, "toString")

	result, err := vm.Call(toString, argsEcho(), nil)
	require.NoError(t, err)
	assert.Equal(t, "function echo() { [native code] }", result.ToString())

	_, err = vm.Call(toString, vm.NumberValue(1), nil)
	require.Error(t, err)
}

func TestFunctionConstructorRejectsSource(t *testing.T) {
	ctx, _ := newTestContext(t)
	fnCtor := globalFn(t, ctx, "Function")
	callTypeError(t, fnCtor, vm.NewString("return 1"))
}
