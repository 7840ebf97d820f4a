package vm

// ProtoKey is the reserved prototype-link key. Bulk property definition
// skips it; it never reaches the single-property primitive.
const ProtoKey = "__proto__"

// PropertyDescriptor is the parsed form of a descriptor record.
// Nil attribute pointers mean "absent" so existing attributes survive
// redefinition untouched.
type PropertyDescriptor struct {
	Value     Value
	Getter    Value
	Setter    Value
	HasValue  bool
	HasGetter bool
	HasSetter bool

	Writable     *bool
	Enumerable   *bool
	Configurable *bool
}

// IsAccessor reports whether the descriptor describes an accessor property.
func (d *PropertyDescriptor) IsAccessor() bool {
	return d.HasGetter || d.HasSetter
}

// ParsePropertyDescriptor reads a descriptor object into its parsed form.
// Mixing value/writable with get/set is a TypeError, as are non-callable
// accessors. The descriptor object itself is not mutated.
func ParsePropertyDescriptor(desc Value) (PropertyDescriptor, error) {
	var out PropertyDescriptor
	if !desc.IsObject() {
		return out, NewTypeError("Property description must be an object: " + desc.ToString())
	}

	get := func(name string) (Value, bool) {
		if obj := desc.AsPlainObject(); obj != nil {
			return obj.Get(name)
		}
		return desc.AsDictObject().Get(name)
	}

	if v, ok := get("value"); ok {
		out.Value = v
		out.HasValue = true
	}
	if v, ok := get("writable"); ok {
		out.Writable = boolPtr(v.IsTruthy())
	}
	if v, ok := get("enumerable"); ok {
		out.Enumerable = boolPtr(v.IsTruthy())
	}
	if v, ok := get("configurable"); ok {
		out.Configurable = boolPtr(v.IsTruthy())
	}
	if v, ok := get("get"); ok && !v.IsUndefined() {
		if !v.IsCallable() {
			return out, NewTypeError("Getter must be a function: " + v.ToString())
		}
		out.Getter = v
		out.HasGetter = true
	}
	if v, ok := get("set"); ok && !v.IsUndefined() {
		if !v.IsCallable() {
			return out, NewTypeError("Setter must be a function: " + v.ToString())
		}
		out.Setter = v
		out.HasSetter = true
	}

	if out.IsAccessor() && (out.HasValue || out.Writable != nil) {
		return out, NewTypeError("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
	}
	return out, nil
}

// DefineProperty is the authoritative single-property definition primitive:
// it validates the descriptor and mutates the target, raising a TypeError
// for non-object targets and rejected definitions.
func DefineProperty(target Value, key string, desc Value) error {
	parsed, err := ParsePropertyDescriptor(desc)
	if err != nil {
		return err
	}
	return DefineParsedProperty(target, key, parsed)
}

// DefineParsedProperty applies an already-parsed descriptor to target.
func DefineParsedProperty(target Value, key string, desc PropertyDescriptor) error {
	switch {
	case target.AsPlainObject() != nil:
		obj := target.AsPlainObject()
		if desc.IsAccessor() {
			if !obj.DefineAccessorProperty(key, desc.Getter, desc.HasGetter, desc.Setter, desc.HasSetter, desc.Enumerable, desc.Configurable) {
				return NewTypeError("Cannot redefine property: " + key)
			}
			return nil
		}
		if !obj.DefineOwnProperty(key, desc.Value, desc.HasValue, desc.Writable, desc.Enumerable, desc.Configurable) {
			return NewTypeError("Cannot redefine property: " + key)
		}
		return nil
	case target.AsDictObject() != nil:
		dict := target.AsDictObject()
		if desc.IsAccessor() {
			return NewTypeError("Cannot define accessor property on dictionary object: " + key)
		}
		if !dict.HasOwn(key) && !dict.IsExtensible() {
			return NewTypeError("Cannot define property " + key + ", object is not extensible")
		}
		dict.SetOwn(key, desc.Value)
		return nil
	default:
		return NewTypeError("Object.defineProperty called on non-object")
	}
}

// OwnEnumerableKeys is the key-enumeration primitive: the target's own
// enumerable string keys, in insertion order for plain objects and sorted
// order for dict objects. Non-objects enumerate as empty.
func OwnEnumerableKeys(v Value) []string {
	if obj := v.AsPlainObject(); obj != nil {
		return obj.OwnKeys()
	}
	if dict := v.AsDictObject(); dict != nil {
		return dict.OwnKeys()
	}
	return nil
}

// GetProperty reads a property off any object-model value, walking the
// prototype chain.
func GetProperty(v Value, name string) (Value, bool) {
	if obj := v.AsPlainObject(); obj != nil {
		return obj.Get(name)
	}
	if dict := v.AsDictObject(); dict != nil {
		return dict.Get(name)
	}
	return Undefined, false
}

// GetOwnProperty reads an own property off any object-model value.
func GetOwnProperty(v Value, name string) (Value, bool) {
	if obj := v.AsPlainObject(); obj != nil {
		return obj.GetOwn(name)
	}
	if dict := v.AsDictObject(); dict != nil {
		return dict.GetOwn(name)
	}
	return Undefined, false
}

// DescriptorToObject reflects an own property's descriptor back into a
// fresh descriptor object, or Undefined when the property does not exist.
// The inverse of ParsePropertyDescriptor, used by getOwnPropertyDescriptor.
func DescriptorToObject(target Value, key string) Value {
	if obj := target.AsPlainObject(); obj != nil {
		if get, set, enumerable, configurable, ok := obj.GetOwnAccessor(key); ok {
			out := NewObject(DefaultObjectPrototype).AsPlainObject()
			out.SetOwn("get", get)
			out.SetOwn("set", set)
			out.SetOwn("enumerable", BooleanValue(enumerable))
			out.SetOwn("configurable", BooleanValue(configurable))
			return NewValueFromPlainObject(out)
		}
		if value, writable, enumerable, configurable, ok := obj.GetOwnDescriptor(key); ok {
			out := NewObject(DefaultObjectPrototype).AsPlainObject()
			out.SetOwn("value", value)
			out.SetOwn("writable", BooleanValue(writable))
			out.SetOwn("enumerable", BooleanValue(enumerable))
			out.SetOwn("configurable", BooleanValue(configurable))
			return NewValueFromPlainObject(out)
		}
		return Undefined
	}
	if dict := target.AsDictObject(); dict != nil {
		if value, writable, enumerable, configurable, ok := dict.GetOwnDescriptor(key); ok {
			out := NewObject(DefaultObjectPrototype).AsPlainObject()
			out.SetOwn("value", value)
			out.SetOwn("writable", BooleanValue(writable))
			out.SetOwn("enumerable", BooleanValue(enumerable))
			out.SetOwn("configurable", BooleanValue(configurable))
			return NewValueFromPlainObject(out)
		}
	}
	return Undefined
}

func boolPtr(b bool) *bool { return &b }
