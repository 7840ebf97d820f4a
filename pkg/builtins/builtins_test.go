package builtins

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/pkg/vm"
)

// newTestContext runs all standard initializers against a fresh global
// object and returns the populated context plus the print buffer.
func newTestContext(t *testing.T) (*RuntimeContext, *bytes.Buffer) {
	t.Helper()
	globalVal := vm.NewObject(vm.Null)
	global := globalVal.AsPlainObject()
	stdout := &bytes.Buffer{}

	ctx := &RuntimeContext{
		DefineGlobal: func(name string, value vm.Value) error {
			global.SetOwnNonEnumerable(name, value)
			return nil
		},
		GetGlobal: func(name string) (vm.Value, bool) {
			return global.Get(name)
		},
		GlobalObject: globalVal,
		Stdout:       stdout,
		Errors:       vm.NewErrorPrototypes(),
	}

	for _, init := range GetStandardInitializers() {
		require.NoError(t, init.InitRuntime(ctx), "initializer %s", init.Name())
	}
	return ctx, stdout
}

// globalFn looks up a global function by name.
func globalFn(t *testing.T, ctx *RuntimeContext, name string) vm.Value {
	t.Helper()
	fn, ok := ctx.GetGlobal(name)
	require.True(t, ok, "global %s not found", name)
	require.True(t, fn.IsCallable(), "global %s is not callable", name)
	return fn
}

// staticFn looks up a static method on a constructor, e.g. Object.is.
func staticFn(t *testing.T, ctx *RuntimeContext, owner, name string) vm.Value {
	t.Helper()
	ctor, ok := ctx.GetGlobal(owner)
	require.True(t, ok, "global %s not found", owner)
	props := ctor.AsNativeFunctionWithProps()
	require.NotNil(t, props, "global %s has no static properties", owner)
	fn, ok := props.Properties.GetOwn(name)
	require.True(t, ok, "%s.%s not found", owner, name)
	return fn
}

// call invokes fn and fails the test on error.
func call(t *testing.T, fn vm.Value, args ...vm.Value) vm.Value {
	t.Helper()
	result, err := vm.Call(fn, vm.Undefined, args)
	require.NoError(t, err)
	return result
}

// callTypeError invokes fn and requires a TypeError, returning its message.
func callTypeError(t *testing.T, fn vm.Value, args ...vm.Value) string {
	t.Helper()
	_, err := vm.Call(fn, vm.Undefined, args)
	require.Error(t, err)
	thrown, ok := vm.ThrownValue(err)
	require.True(t, ok, "error should carry a thrown value")
	name, _ := vm.GetProperty(thrown, "name")
	assert.Equal(t, "TypeError", name.ToString())
	message, _ := vm.GetProperty(thrown, "message")
	return message.ToString()
}

func TestStandardInitializerOrder(t *testing.T) {
	inits := GetStandardInitializers()
	require.Len(t, inits, 4)
	assert.Equal(t, "Object", inits[0].Name())
	assert.Equal(t, "Function", inits[1].Name())
	assert.Equal(t, "Error", inits[2].Name())
	assert.Equal(t, "Globals", inits[3].Name())
	for i := 1; i < len(inits); i++ {
		assert.LessOrEqual(t, inits[i-1].Priority(), inits[i].Priority())
	}
}
