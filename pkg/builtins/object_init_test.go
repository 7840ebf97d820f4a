package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talon/pkg/vm"
)

// dataDesc builds a { value: v, ... } descriptor object.
func dataDesc(v vm.Value, attrs ...string) vm.Value {
	desc := vm.NewObject(vm.Null).AsPlainObject()
	desc.SetOwn("value", v)
	for _, a := range attrs {
		desc.SetOwn(a, vm.True)
	}
	return vm.NewValueFromPlainObject(desc)
}

func TestObjectIs(t *testing.T) {
	ctx, _ := newTestContext(t)
	is := staticFn(t, ctx, "Object", "is")

	negZero := vm.NumberValue(math.Copysign(0, -1))

	assert.True(t, call(t, is, vm.NaN, vm.NaN).AsBoolean(), "Object.is(NaN, NaN)")
	assert.False(t, call(t, is, vm.NumberValue(0), negZero).AsBoolean(), "Object.is(+0, -0)")
	assert.False(t, call(t, is, negZero, vm.NumberValue(0)).AsBoolean(), "Object.is(-0, +0)")
	assert.True(t, call(t, is, negZero, negZero).AsBoolean())
	assert.True(t, call(t, is, vm.NewString("a"), vm.NewString("a")).AsBoolean())
	assert.False(t, call(t, is, vm.NewString("1"), vm.NumberValue(1)).AsBoolean(), "no coercion")

	obj := vm.NewObject(vm.Null)
	assert.True(t, call(t, is, obj, obj).AsBoolean())
	assert.False(t, call(t, is, obj, vm.NewObject(vm.Null)).AsBoolean())

	// Missing arguments default to undefined
	assert.True(t, call(t, is).AsBoolean())
	assert.False(t, call(t, is, vm.Null).AsBoolean())
}

func TestObjectDefineProperties(t *testing.T) {
	ctx, _ := newTestContext(t)
	defineProps := staticFn(t, ctx, "Object", "defineProperties")

	t.Run("applies in insertion order and returns the target", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("b", dataDesc(vm.NumberValue(1), "enumerable"))
		props.SetOwn("a", dataDesc(vm.NumberValue(2), "enumerable"))
		props.SetOwn("c", dataDesc(vm.NumberValue(3), "enumerable"))

		result := call(t, defineProps, target, vm.NewValueFromPlainObject(props))
		assert.True(t, result.Is(target), "must return the same target object")
		assert.Equal(t, []string{"b", "a", "c"}, target.AsPlainObject().OwnKeys())
	})

	t.Run("skips the prototype-link key", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("__proto__", dataDesc(vm.NewObject(vm.Null)))
		props.SetOwn("real", dataDesc(vm.NumberValue(1), "enumerable"))

		result := call(t, defineProps, target, vm.NewValueFromPlainObject(props))
		assert.False(t, result.AsPlainObject().HasOwn("__proto__"))
		assert.True(t, result.AsPlainObject().GetPrototype().Is(ctx.ObjectPrototype),
			"prototype must not change")
		v, _ := result.AsPlainObject().GetOwn("real")
		assert.True(t, v.StrictlyEquals(vm.NumberValue(1)))
	})

	t.Run("fail-fast leaves earlier keys applied", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		// Lock "locked" so redefining it fails
		require.NoError(t, vm.DefineProperty(target, "locked", dataDesc(vm.NumberValue(1))))

		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("first", dataDesc(vm.NumberValue(10), "enumerable"))
		props.SetOwn("locked", dataDesc(vm.NumberValue(99)))
		props.SetOwn("never", dataDesc(vm.NumberValue(20), "enumerable"))

		message := callTypeError(t, defineProps, target, vm.NewValueFromPlainObject(props))
		assert.Equal(t, "Cannot redefine property: locked", message)

		obj := target.AsPlainObject()
		v, ok := obj.GetOwn("first")
		require.True(t, ok, "keys before the failure stay applied")
		assert.True(t, v.StrictlyEquals(vm.NumberValue(10)))
		v, _ = obj.GetOwn("locked")
		assert.True(t, v.StrictlyEquals(vm.NumberValue(1)), "failed key keeps its old value")
		assert.False(t, obj.HasOwn("never"), "keys after the failure never apply")
	})

	t.Run("non-enumerable descriptor bag keys are ignored", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("seen", dataDesc(vm.NumberValue(1)))
		props.SetOwnNonEnumerable("unseen", dataDesc(vm.NumberValue(2)))

		call(t, defineProps, target, vm.NewValueFromPlainObject(props))
		assert.True(t, target.AsPlainObject().HasOwn("seen"))
		assert.False(t, target.AsPlainObject().HasOwn("unseen"))
	})

	t.Run("empty descriptor bag is a no-op", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		result := call(t, defineProps, target, vm.NewObject(vm.Null))
		assert.True(t, result.Is(target))
		assert.Empty(t, result.AsPlainObject().OwnKeys())
	})

	t.Run("non-object target", func(t *testing.T) {
		message := callTypeError(t, defineProps, vm.NumberValue(1), vm.NewObject(vm.Null))
		assert.Equal(t, "Object.defineProperties called on non-object", message)
	})

	t.Run("non-object descriptor bag", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		callTypeError(t, defineProps, target, vm.NumberValue(1))
		callTypeError(t, defineProps, target)
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("bad", vm.NumberValue(1))
		callTypeError(t, defineProps, target, vm.NewValueFromPlainObject(props))
	})

	t.Run("accessor descriptors", func(t *testing.T) {
		target := vm.NewObject(ctx.ObjectPrototype)
		getter := vm.NewNativeFunction(0, false, "get", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.NumberValue(7), nil
		})
		desc := vm.NewObject(vm.Null).AsPlainObject()
		desc.SetOwn("get", getter)
		desc.SetOwn("enumerable", vm.True)

		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("computed", vm.NewValueFromPlainObject(desc))

		call(t, defineProps, target, vm.NewValueFromPlainObject(props))
		assert.True(t, target.AsPlainObject().IsOwnAccessor("computed"))
	})
}

func TestObjectDefineProperty(t *testing.T) {
	ctx, _ := newTestContext(t)
	defineProp := staticFn(t, ctx, "Object", "defineProperty")

	target := vm.NewObject(ctx.ObjectPrototype)
	result := call(t, defineProp, target, vm.NewString("p"), dataDesc(vm.NumberValue(1)))
	assert.True(t, result.Is(target))

	v, ok := target.AsPlainObject().GetOwn("p")
	require.True(t, ok)
	assert.True(t, v.StrictlyEquals(vm.NumberValue(1)))

	// defineProperty does NOT skip the prototype-link key
	call(t, defineProp, target, vm.NewString("__proto__"), dataDesc(vm.True))
	assert.True(t, target.AsPlainObject().HasOwn("__proto__"))

	message := callTypeError(t, defineProp, vm.Undefined, vm.NewString("p"), dataDesc(vm.True))
	assert.Equal(t, "Object.defineProperty called on non-object", message)
}

func TestObjectCreate(t *testing.T) {
	ctx, _ := newTestContext(t)
	create := staticFn(t, ctx, "Object", "create")

	t.Run("null prototype", func(t *testing.T) {
		obj := call(t, create, vm.Null)
		require.True(t, obj.IsObject())
		assert.True(t, obj.AsPlainObject().GetPrototype().IsNull())
	})

	t.Run("object prototype", func(t *testing.T) {
		proto := vm.NewObject(vm.Null)
		proto.AsPlainObject().SetOwn("inherited", vm.NumberValue(1))
		obj := call(t, create, proto)
		v, ok := obj.AsPlainObject().Get("inherited")
		require.True(t, ok)
		assert.True(t, v.StrictlyEquals(vm.NumberValue(1)))
	})

	t.Run("with properties", func(t *testing.T) {
		props := vm.NewObject(vm.Null).AsPlainObject()
		props.SetOwn("x", dataDesc(vm.NumberValue(5), "enumerable"))
		obj := call(t, create, vm.Null, vm.NewValueFromPlainObject(props))
		assert.Equal(t, []string{"x"}, obj.AsPlainObject().OwnKeys())
	})

	t.Run("invalid prototype", func(t *testing.T) {
		callTypeError(t, create, vm.NumberValue(1))
		callTypeError(t, create)
	})
}

func TestObjectKeysAndNames(t *testing.T) {
	ctx, _ := newTestContext(t)
	keys := staticFn(t, ctx, "Object", "keys")
	names := staticFn(t, ctx, "Object", "getOwnPropertyNames")

	obj := vm.NewObject(ctx.ObjectPrototype)
	plain := obj.AsPlainObject()
	plain.SetOwn("b", vm.True)
	plain.SetOwn("a", vm.True)
	plain.SetOwnNonEnumerable("hidden", vm.True)

	result := call(t, keys, obj).AsArray()
	require.NotNil(t, result)
	require.Equal(t, 2, result.Length())
	assert.Equal(t, "b", result.Get(0).ToString())
	assert.Equal(t, "a", result.Get(1).ToString())

	all := call(t, names, obj).AsArray()
	require.NotNil(t, all)
	assert.Equal(t, 3, all.Length(), "getOwnPropertyNames includes non-enumerable keys")

	callTypeError(t, keys, vm.NumberValue(1))
}

func TestObjectGetOwnPropertyDescriptor(t *testing.T) {
	ctx, _ := newTestContext(t)
	getDesc := staticFn(t, ctx, "Object", "getOwnPropertyDescriptor")

	obj := vm.NewObject(ctx.ObjectPrototype)
	obj.AsPlainObject().SetOwn("p", vm.NumberValue(3))

	desc := call(t, getDesc, obj, vm.NewString("p"))
	require.True(t, desc.IsObject())
	v, _ := vm.GetOwnProperty(desc, "value")
	assert.True(t, v.StrictlyEquals(vm.NumberValue(3)))
	w, _ := vm.GetOwnProperty(desc, "writable")
	assert.True(t, w.AsBoolean(), "plain assignment creates writable properties")
	e, _ := vm.GetOwnProperty(desc, "enumerable")
	assert.True(t, e.AsBoolean())

	assert.True(t, call(t, getDesc, obj, vm.NewString("missing")).IsUndefined())
}

func TestObjectPrototypeMethods(t *testing.T) {
	ctx, _ := newTestContext(t)

	obj := vm.NewObject(ctx.ObjectPrototype)
	obj.AsPlainObject().SetOwn("mine", vm.True)

	hasOwn, ok := vm.GetProperty(obj, "hasOwnProperty")
	require.True(t, ok, "hasOwnProperty inherited from Object.prototype")
	result, err := vm.Call(hasOwn, obj, []vm.Value{vm.NewString("mine")})
	require.NoError(t, err)
	assert.True(t, result.AsBoolean())
	result, err = vm.Call(hasOwn, obj, []vm.Value{vm.NewString("hasOwnProperty")})
	require.NoError(t, err)
	assert.False(t, result.AsBoolean(), "inherited is not own")

	toString, _ := vm.GetProperty(obj, "toString")
	result, err = vm.Call(toString, obj, nil)
	require.NoError(t, err)
	assert.Equal(t, "[object Object]", result.ToString())

	isProtoOf, _ := vm.GetProperty(obj, "isPrototypeOf")
	result, err = vm.Call(isProtoOf, ctx.ObjectPrototype, []vm.Value{obj})
	require.NoError(t, err)
	assert.True(t, result.AsBoolean())
}

func TestObjectFreezeSealExtensible(t *testing.T) {
	ctx, _ := newTestContext(t)
	freeze := staticFn(t, ctx, "Object", "freeze")
	isFrozen := staticFn(t, ctx, "Object", "isFrozen")
	seal := staticFn(t, ctx, "Object", "seal")
	isSealed := staticFn(t, ctx, "Object", "isSealed")
	preventExt := staticFn(t, ctx, "Object", "preventExtensions")
	isExt := staticFn(t, ctx, "Object", "isExtensible")

	obj := vm.NewObject(ctx.ObjectPrototype)
	obj.AsPlainObject().SetOwn("p", vm.NumberValue(1))

	assert.True(t, call(t, isExt, obj).AsBoolean())
	assert.False(t, call(t, isSealed, obj).AsBoolean())
	assert.False(t, call(t, isFrozen, obj).AsBoolean())

	result := call(t, seal, obj)
	assert.True(t, result.Is(obj), "seal returns its argument")
	assert.True(t, call(t, isSealed, obj).AsBoolean())
	assert.False(t, call(t, isFrozen, obj).AsBoolean())

	call(t, freeze, obj)
	assert.True(t, call(t, isFrozen, obj).AsBoolean())

	other := vm.NewObject(ctx.ObjectPrototype)
	call(t, preventExt, other)
	assert.False(t, call(t, isExt, other).AsBoolean())
}

func TestObjectPrototypeOf(t *testing.T) {
	ctx, _ := newTestContext(t)
	getProto := staticFn(t, ctx, "Object", "getPrototypeOf")
	setProto := staticFn(t, ctx, "Object", "setPrototypeOf")

	obj := vm.NewObject(ctx.ObjectPrototype)
	assert.True(t, call(t, getProto, obj).Is(ctx.ObjectPrototype))

	result := call(t, setProto, obj, vm.Null)
	assert.True(t, result.Is(obj))
	assert.True(t, call(t, getProto, obj).IsNull())

	callTypeError(t, setProto, obj, vm.NumberValue(1))

	// Primitives pass through setPrototypeOf unchanged
	result = call(t, setProto, vm.NumberValue(5), vm.Null)
	assert.True(t, result.StrictlyEquals(vm.NumberValue(5)))
}
