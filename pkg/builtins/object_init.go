package builtins

import (
	"talon/pkg/vm"
)

// ObjectInitializer implements the Object builtin
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject // Must be first (base prototype)
}

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	// Create Object.prototype - this is the root prototype (no parent)
	objectProto := vm.NewObject(vm.Null).AsPlainObject()

	// Add prototype methods
	objectProto.SetOwnNonEnumerable("hasOwnProperty", vm.NewNativeFunction(1, false, "hasOwnProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) < 1 {
			return vm.False, nil
		}
		propName := args[0].ToString()

		if plainObj := this.AsPlainObject(); plainObj != nil {
			return vm.BooleanValue(plainObj.HasOwn(propName)), nil
		}
		if dictObj := this.AsDictObject(); dictObj != nil {
			return vm.BooleanValue(dictObj.HasOwn(propName)), nil
		}
		return vm.False, nil
	}))

	objectProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		switch this.Type() {
		case vm.TypeNull:
			return vm.NewString("[object Null]"), nil
		case vm.TypeUndefined:
			return vm.NewString("[object Undefined]"), nil
		case vm.TypeBoolean:
			return vm.NewString("[object Boolean]"), nil
		case vm.TypeFloatNumber, vm.TypeIntegerNumber:
			return vm.NewString("[object Number]"), nil
		case vm.TypeString:
			return vm.NewString("[object String]"), nil
		case vm.TypeArray:
			return vm.NewString("[object Array]"), nil
		case vm.TypeNativeFunction, vm.TypeNativeFunctionWithProps:
			return vm.NewString("[object Function]"), nil
		default:
			return vm.NewString("[object Object]"), nil
		}
	}))

	objectProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	}))

	objectProto.SetOwnNonEnumerable("isPrototypeOf", vm.NewNativeFunction(1, false, "isPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) < 1 {
			return vm.False, nil
		}

		// Walk up the prototype chain of the argument looking for `this`
		current := args[0]
		for {
			var proto vm.Value
			if plainObj := current.AsPlainObject(); plainObj != nil {
				proto = plainObj.GetPrototype()
			} else if dictObj := current.AsDictObject(); dictObj != nil {
				proto = dictObj.GetPrototype()
			} else {
				break
			}

			if proto.Type() == vm.TypeNull {
				break
			}
			if proto.Is(this) {
				return vm.True, nil
			}
			current = proto
		}

		return vm.False, nil
	}))

	objectProto.SetOwnNonEnumerable("propertyIsEnumerable", vm.NewNativeFunction(1, false, "propertyIsEnumerable", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) < 1 {
			return vm.False, nil
		}
		propName := args[0].ToString()
		if plainObj := this.AsPlainObject(); plainObj != nil {
			_, _, enumerable, _, ok := plainObj.GetOwnDescriptor(propName)
			return vm.BooleanValue(ok && enumerable), nil
		}
		if dictObj := this.AsDictObject(); dictObj != nil {
			return vm.BooleanValue(dictObj.HasOwn(propName)), nil
		}
		return vm.False, nil
	}))

	protoValue := vm.NewValueFromPlainObject(objectProto)

	// Create Object constructor with static methods
	objectCtor := vm.NewNativeFunctionWithProps(-1, true, "Object", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 || args[0].IsUndefined() || args[0].IsNull() {
			return vm.NewObject(protoValue), nil
		}
		if args[0].IsObject() {
			return args[0], nil
		}
		// Primitive boxing is not modeled; hand back a fresh object
		return vm.NewObject(protoValue), nil
	})
	ctorProps := objectCtor.AsNativeFunctionWithProps().Properties

	ctorProps.SetOwnNonEnumerable("prototype", protoValue)

	// Static methods; the throwing ones link their exceptions to this
	// runtime's error prototypes
	reg := ctx.Errors
	ctorProps.SetOwnNonEnumerable("is", vm.NewNativeFunction(2, false, "is", objectIsImpl))
	ctorProps.SetOwnNonEnumerable("defineProperty", vm.NewNativeFunction(3, false, "defineProperty", throwing(reg, objectDefinePropertyImpl)))
	ctorProps.SetOwnNonEnumerable("defineProperties", vm.NewNativeFunction(2, false, "defineProperties", throwing(reg, objectDefinePropertiesImpl)))
	ctorProps.SetOwnNonEnumerable("create", vm.NewNativeFunction(2, false, "create", throwing(reg, objectCreateImpl)))
	ctorProps.SetOwnNonEnumerable("keys", vm.NewNativeFunction(1, false, "keys", throwing(reg, objectKeysImpl)))
	ctorProps.SetOwnNonEnumerable("getOwnPropertyNames", vm.NewNativeFunction(1, false, "getOwnPropertyNames", throwing(reg, objectGetOwnPropertyNamesImpl)))
	ctorProps.SetOwnNonEnumerable("getOwnPropertyDescriptor", vm.NewNativeFunction(2, false, "getOwnPropertyDescriptor", throwing(reg, objectGetOwnPropertyDescriptorImpl)))
	ctorProps.SetOwnNonEnumerable("getPrototypeOf", vm.NewNativeFunction(1, false, "getPrototypeOf", throwing(reg, objectGetPrototypeOfImpl)))
	ctorProps.SetOwnNonEnumerable("setPrototypeOf", vm.NewNativeFunction(2, false, "setPrototypeOf", throwing(reg, objectSetPrototypeOfImpl)))
	ctorProps.SetOwnNonEnumerable("preventExtensions", vm.NewNativeFunction(1, false, "preventExtensions", objectPreventExtensionsImpl))
	ctorProps.SetOwnNonEnumerable("isExtensible", vm.NewNativeFunction(1, false, "isExtensible", objectIsExtensibleImpl))
	ctorProps.SetOwnNonEnumerable("freeze", vm.NewNativeFunction(1, false, "freeze", objectFreezeImpl))
	ctorProps.SetOwnNonEnumerable("isFrozen", vm.NewNativeFunction(1, false, "isFrozen", objectIsFrozenImpl))
	ctorProps.SetOwnNonEnumerable("seal", vm.NewNativeFunction(1, false, "seal", objectSealImpl))
	ctorProps.SetOwnNonEnumerable("isSealed", vm.NewNativeFunction(1, false, "isSealed", objectIsSealedImpl))

	// Set constructor property on prototype
	objectProto.SetOwnNonEnumerable("constructor", objectCtor)

	// Publish for later initializers
	ctx.ObjectPrototype = protoValue

	// Define globally
	return ctx.DefineGlobal("Object", objectCtor)
}

// Static method implementations

// objectIsImpl implements Object.is: the SameValue identity predicate.
// Total and side-effect free; never returns an error.
func objectIsImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	x, y := vm.Undefined, vm.Undefined
	if len(args) > 0 {
		x = args[0]
	}
	if len(args) > 1 {
		y = args[1]
	}
	return vm.BooleanValue(x.SameValue(y)), nil
}

func objectDefinePropertyImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) < 1 || !args[0].IsObject() {
		return vm.Undefined, vm.NewTypeError("Object.defineProperty called on non-object")
	}
	target := args[0]
	key := vm.Undefined
	desc := vm.Undefined
	if len(args) > 1 {
		key = args[1]
	}
	if len(args) > 2 {
		desc = args[2]
	}
	if err := vm.DefineProperty(target, key.ToString(), desc); err != nil {
		return vm.Undefined, err
	}
	return target, nil
}

// objectDefinePropertiesImpl applies a batch of property descriptors to the
// target, one key at a time in the descriptor bag's enumeration order. The
// reserved prototype-link key is skipped outright. The first rejected
// definition aborts the loop; keys already applied stay applied.
func objectDefinePropertiesImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) < 1 || !args[0].IsObject() {
		return vm.Undefined, vm.NewTypeError("Object.defineProperties called on non-object")
	}
	target := args[0]
	props := vm.Undefined
	if len(args) > 1 {
		props = args[1]
	}
	return defineProperties(target, props)
}

func defineProperties(target vm.Value, props vm.Value) (vm.Value, error) {
	if !props.IsObject() {
		return vm.Undefined, vm.NewTypeError("Property description must be an object: " + props.ToString())
	}
	for _, key := range vm.OwnEnumerableKeys(props) {
		if key == vm.ProtoKey {
			continue
		}
		desc, _ := vm.GetOwnProperty(props, key)
		if err := vm.DefineProperty(target, key, desc); err != nil {
			return vm.Undefined, err
		}
	}
	return target, nil
}

func objectCreateImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, vm.NewTypeError("Object prototype may only be an Object or null: undefined")
	}

	proto := args[0]
	if proto.Type() != vm.TypeNull && !proto.IsObject() {
		return vm.Undefined, vm.NewTypeError("Object prototype may only be an Object or null: " + proto.ToString())
	}

	obj := vm.NewObject(proto)

	// Optional second argument goes through the bulk definition path
	if len(args) > 1 && !args[1].IsUndefined() {
		return defineProperties(obj, args[1])
	}
	return obj, nil
}

func objectKeysImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 || !args[0].IsObject() {
		return vm.Undefined, vm.NewTypeError("Object.keys called on non-object")
	}

	keys := vm.NewArray()
	keysArray := keys.AsArray()
	for _, key := range vm.OwnEnumerableKeys(args[0]) {
		keysArray.Append(vm.NewString(key))
	}
	return keys, nil
}

func objectGetOwnPropertyNamesImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 || !args[0].IsObject() {
		return vm.Undefined, vm.NewTypeError("Object.getOwnPropertyNames called on non-object")
	}

	names := vm.NewArray()
	namesArray := names.AsArray()
	var all []string
	if plainObj := args[0].AsPlainObject(); plainObj != nil {
		all = plainObj.OwnPropertyNames()
	} else {
		all = args[0].AsDictObject().OwnPropertyNames()
	}
	for _, name := range all {
		namesArray.Append(vm.NewString(name))
	}
	return names, nil
}

func objectGetOwnPropertyDescriptorImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) < 1 || !args[0].IsObject() {
		return vm.Undefined, vm.NewTypeError("Object.getOwnPropertyDescriptor called on non-object")
	}
	key := vm.Undefined
	if len(args) > 1 {
		key = args[1]
	}
	return vm.DescriptorToObject(args[0], key.ToString()), nil
}

func objectGetPrototypeOfImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, vm.NewTypeError("Object.getPrototypeOf called on non-object")
	}

	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		return plainObj.GetPrototype(), nil
	}
	if dictObj := obj.AsDictObject(); dictObj != nil {
		return dictObj.GetPrototype(), nil
	}
	return vm.Null, nil
}

func objectSetPrototypeOfImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) < 2 {
		return vm.Undefined, vm.NewTypeError("Object.setPrototypeOf requires an object and a prototype")
	}

	obj := args[0]
	proto := args[1]

	if !obj.IsObject() {
		// Primitives pass through unchanged per ECMAScript
		return obj, nil
	}
	if proto.Type() != vm.TypeNull && !proto.IsObject() {
		return vm.Undefined, vm.NewTypeError("Object prototype may only be an Object or null: " + proto.ToString())
	}

	ok := true
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		ok = plainObj.SetPrototype(proto)
	} else if dictObj := obj.AsDictObject(); dictObj != nil {
		ok = dictObj.SetPrototype(proto)
	}
	if !ok {
		return vm.Undefined, vm.NewTypeError("Object.setPrototypeOf called on non-extensible object")
	}
	return obj, nil
}

func objectPreventExtensionsImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, nil
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		plainObj.SetExtensible(false)
	} else if dictObj := obj.AsDictObject(); dictObj != nil {
		dictObj.SetExtensible(false)
	}
	return obj, nil
}

func objectIsExtensibleImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.False, nil
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		return vm.BooleanValue(plainObj.IsExtensible()), nil
	}
	if dictObj := obj.AsDictObject(); dictObj != nil {
		return vm.BooleanValue(dictObj.IsExtensible()), nil
	}
	return vm.False, nil
}

func objectFreezeImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, nil
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		plainObj.Freeze()
	} else if dictObj := obj.AsDictObject(); dictObj != nil {
		dictObj.SetExtensible(false)
	}
	return obj, nil
}

func objectIsFrozenImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.True, nil // Primitives are trivially frozen
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		return vm.BooleanValue(plainObj.IsFrozen()), nil
	}
	if dictObj := obj.AsDictObject(); dictObj != nil {
		return vm.BooleanValue(!dictObj.IsExtensible() && len(dictObj.OwnKeys()) == 0), nil
	}
	return vm.True, nil
}

func objectSealImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, nil
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		plainObj.Seal()
	} else if dictObj := obj.AsDictObject(); dictObj != nil {
		dictObj.SetExtensible(false)
	}
	return obj, nil
}

func objectIsSealedImpl(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.True, nil
	}
	obj := args[0]
	if plainObj := obj.AsPlainObject(); plainObj != nil {
		return vm.BooleanValue(plainObj.IsSealed()), nil
	}
	if dictObj := obj.AsDictObject(); dictObj != nil {
		return vm.BooleanValue(!dictObj.IsExtensible() && len(dictObj.OwnKeys()) == 0), nil
	}
	return vm.True, nil
}
