package vm

import (
	"sort"
	"sync"
	"unsafe"
)

type Field struct {
	offset       int
	name         string
	writable     bool
	enumerable   bool
	configurable bool
	isAccessor   bool
}

type Shape struct {
	parent      *Shape
	fields      []Field
	transitions map[string]*Shape // keyed by property name
	mu          sync.RWMutex      // Protects transitions map
	version     uint32            // Bumped on any layout/flags change
}

type Object struct {
}

type PlainObject struct {
	Object
	shape      *Shape
	prototype  Value
	properties []Value
	// Accessor storage keyed by property name
	getters map[string]Value
	setters map[string]Value
	// Extensible flag - when false, no new properties can be added
	extensible bool
}

// GetOwn looks up a direct (own) property by name. Returns (value, true) if
// present. Accessor properties read back as Undefined here; getters are
// define-only state reachable through GetOwnAccessor.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	for _, f := range o.shape.fields {
		if f.name == name {
			if f.offset < len(o.properties) {
				return o.properties[f.offset], true
			}
			return Undefined, true
		}
	}
	return Undefined, false
}

// GetOwnDescriptor returns the value and attribute flags for an own property.
// Returns (value, writable, enumerable, configurable, exists).
func (o *PlainObject) GetOwnDescriptor(name string) (Value, bool, bool, bool, bool) {
	for _, f := range o.shape.fields {
		if f.name == name {
			if f.isAccessor {
				return Undefined, false, f.enumerable, f.configurable, true
			}
			var v Value = Undefined
			if f.offset < len(o.properties) {
				v = o.properties[f.offset]
			}
			return v, f.writable, f.enumerable, f.configurable, true
		}
	}
	return Undefined, false, false, false, false
}

// GetOwnAccessor returns the accessor pair for an own property if it is an
// accessor. Returns (get, set, enumerable, configurable, exists).
func (o *PlainObject) GetOwnAccessor(name string) (Value, Value, bool, bool, bool) {
	for _, f := range o.shape.fields {
		if f.name == name && f.isAccessor {
			var g, s Value = Undefined, Undefined
			if o.getters != nil {
				if v, ok := o.getters[name]; ok {
					g = v
				}
			}
			if o.setters != nil {
				if v, ok := o.setters[name]; ok {
					s = v
				}
			}
			return g, s, f.enumerable, f.configurable, true
		}
	}
	return Undefined, Undefined, false, false, false
}

// IsOwnAccessor reports whether an own property exists and is an accessor.
func (o *PlainObject) IsOwnAccessor(name string) bool {
	for _, f := range o.shape.fields {
		if f.name == name {
			return f.isAccessor
		}
	}
	return false
}

// DeleteOwn removes an own property if present and configurable.
// Returns true if the property was deleted (or did not exist).
func (o *PlainObject) DeleteOwn(name string) bool {
	idx := -1
	var f Field
	for i := range o.shape.fields {
		if o.shape.fields[i].name == name {
			idx = i
			f = o.shape.fields[i]
			break
		}
	}
	if idx == -1 {
		// Non-existent own property: delete returns true per ECMAScript
		return true
	}
	if !f.configurable {
		return false
	}
	newFields := make([]Field, 0, len(o.shape.fields)-1)
	for i, fld := range o.shape.fields {
		if i == idx {
			continue
		}
		nf := fld
		if fld.offset > f.offset {
			nf.offset = fld.offset - 1
		}
		newFields = append(newFields, nf)
	}
	newProps := make([]Value, 0, len(o.properties)-1)
	for i := range o.properties {
		if i == f.offset {
			continue
		}
		newProps = append(newProps, o.properties[i])
	}
	// Fresh shape without transitions; deletions fall off the transition tree
	o.shape = &Shape{parent: o.shape.parent, fields: newFields, transitions: make(map[string]*Shape), version: o.shape.version + 1}
	o.properties = newProps
	if o.getters != nil {
		delete(o.getters, name)
	}
	if o.setters != nil {
		delete(o.setters, name)
	}
	return true
}

// SetOwn sets or defines an own property with regular assignment semantics.
// New properties are writable, enumerable and configurable. If the property
// exists and is non-writable, this is a no-op.
func (o *PlainObject) SetOwn(name string, v Value) {
	o.setOwnWithFlags(name, v, true)
}

// SetOwnNonEnumerable sets or defines an own property as non-enumerable
// (for built-in methods).
func (o *PlainObject) SetOwnNonEnumerable(name string, v Value) {
	o.setOwnWithFlags(name, v, false)
}

func (o *PlainObject) setOwnWithFlags(name string, v Value, enumerable bool) {
	for _, f := range o.shape.fields {
		if f.name == name {
			// existing property: honor writable flag
			if f.writable {
				o.properties[f.offset] = v
			}
			return
		}
	}
	if !o.extensible {
		return
	}
	cur := o.shape
	hashKey := name
	if !enumerable {
		hashKey += "\x00nonenum" // separate transition from the enumerable version
	}
	cur.mu.RLock()
	next, ok := cur.transitions[hashKey]
	cur.mu.RUnlock()
	if !ok {
		off := len(cur.fields)
		fld := Field{offset: off, name: name, writable: true, enumerable: enumerable, configurable: true}
		newFields := make([]Field, len(cur.fields)+1)
		copy(newFields, cur.fields)
		newFields[len(cur.fields)] = fld
		next = &Shape{parent: cur, fields: newFields, transitions: make(map[string]*Shape), version: cur.version + 1}
		cur.mu.Lock()
		if existing, exists := cur.transitions[hashKey]; exists {
			next = existing
		} else {
			cur.transitions[hashKey] = next
		}
		cur.mu.Unlock()
	}
	o.shape = next
	o.properties = append(o.properties, v)
}

// detachShape gives the object a private copy of its shape. Attribute
// changes must not leak into other objects sharing the shape through the
// transition cache.
func (o *PlainObject) detachShape() {
	fields := make([]Field, len(o.shape.fields))
	copy(fields, o.shape.fields)
	o.shape = &Shape{parent: o.shape.parent, fields: fields, transitions: make(map[string]*Shape), version: o.shape.version + 1}
}

// DefineOwnProperty defines or updates an own data property with explicit
// attributes. For existing properties, unspecified attributes (nil) keep
// their previous values; for new ones they default to false.
// Returns false when the object model rejects the definition
// (non-configurable violations, non-extensible target).
func (o *PlainObject) DefineOwnProperty(name string, value Value, hasValue bool, writable *bool, enumerable *bool, configurable *bool) bool {
	for i, f := range o.shape.fields {
		if f.name == name {
			newF := f
			convertingFromAccessor := false
			if f.isAccessor {
				// Convert accessor to data property: only if configurable
				if !f.configurable {
					return false
				}
				newF.isAccessor = false
				newF.writable = false // Default for new data property
				convertingFromAccessor = true
				if o.getters != nil {
					delete(o.getters, name)
				}
				if o.setters != nil {
					delete(o.setters, name)
				}
			}
			if !f.configurable {
				if configurable != nil && *configurable != f.configurable {
					return false
				}
				if enumerable != nil && *enumerable != f.enumerable {
					return false
				}
				// Non-configurable, non-writable: writable cannot flip to true
				if !f.writable && writable != nil && *writable {
					return false
				}
				if !f.writable && hasValue {
					cur := o.properties[f.offset]
					if !cur.SameValue(value) {
						return false
					}
				}
			}
			if hasValue && (f.configurable || convertingFromAccessor || f.writable) {
				o.properties[f.offset] = value
			}
			if writable != nil {
				newF.writable = *writable
			}
			if enumerable != nil {
				newF.enumerable = *enumerable
			}
			if configurable != nil {
				newF.configurable = *configurable
			}
			if newF != f {
				o.detachShape()
				o.shape.fields[i] = newF
			}
			return true
		}
	}
	if !o.extensible {
		return false
	}
	// New property via descriptor: attributes default to false
	cur := o.shape
	off := len(cur.fields)
	fld := Field{offset: off, name: name}
	if writable != nil {
		fld.writable = *writable
	}
	if enumerable != nil {
		fld.enumerable = *enumerable
	}
	if configurable != nil {
		fld.configurable = *configurable
	}
	newFields := make([]Field, len(cur.fields)+1)
	copy(newFields, cur.fields)
	newFields[len(cur.fields)] = fld
	o.shape = &Shape{parent: cur, fields: newFields, transitions: make(map[string]*Shape), version: cur.version + 1}
	o.properties = append(o.properties, value)
	return true
}

// DefineAccessorProperty defines or updates an accessor own property.
// Returns false when the definition is rejected.
func (o *PlainObject) DefineAccessorProperty(name string, getter Value, hasGetter bool, setter Value, hasSetter bool, enumerable *bool, configurable *bool) bool {
	for i, f := range o.shape.fields {
		if f.name == name {
			// Existing non-configurable property cannot become an accessor
			// or change its flags
			if !f.configurable {
				return false
			}
			newF := f
			newF.isAccessor = true
			// writable is meaningless for accessors
			if enumerable != nil {
				newF.enumerable = *enumerable
			}
			if configurable != nil {
				newF.configurable = *configurable
			}
			if newF != f {
				o.detachShape()
				o.shape.fields[i] = newF
			}
			o.storeAccessor(name, getter, hasGetter, setter, hasSetter)
			return true
		}
	}
	if !o.extensible {
		return false
	}
	// New accessor field - always a fresh shape, accessors stay off the
	// transition tree
	cur := o.shape
	off := len(cur.fields)
	fld := Field{offset: off, name: name, isAccessor: true}
	if enumerable != nil {
		fld.enumerable = *enumerable
	}
	if configurable != nil {
		fld.configurable = *configurable
	}
	newFields := make([]Field, len(cur.fields)+1)
	copy(newFields, cur.fields)
	newFields[len(cur.fields)] = fld
	o.shape = &Shape{parent: cur, fields: newFields, transitions: make(map[string]*Shape), version: cur.version + 1}
	o.storeAccessor(name, getter, hasGetter, setter, hasSetter)
	// Keep properties slice length consistent
	o.properties = append(o.properties, Undefined)
	return true
}

func (o *PlainObject) storeAccessor(name string, getter Value, hasGetter bool, setter Value, hasSetter bool) {
	if o.getters == nil {
		o.getters = make(map[string]Value)
	}
	if o.setters == nil {
		o.setters = make(map[string]Value)
	}
	if hasGetter {
		o.getters[name] = getter
	}
	if hasSetter {
		o.setters[name] = setter
	}
}

// HasOwn reports whether an own property with the given name exists.
func (o *PlainObject) HasOwn(name string) bool {
	for _, f := range o.shape.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// OwnKeys returns the own enumerable property names in insertion order.
// This is the enumeration contract the bulk property definer relies on.
func (o *PlainObject) OwnKeys() []string {
	keys := make([]string, 0, len(o.shape.fields))
	for _, f := range o.shape.fields {
		if f.enumerable {
			keys = append(keys, f.name)
		}
	}
	return keys
}

// OwnPropertyNames returns all own property names (including non-enumerable).
// Per ECMAScript, integer indices come first in ascending numeric order,
// then string keys in insertion order.
func (o *PlainObject) OwnPropertyNames() []string {
	var integerIndices []int
	var stringKeys []string

	for _, f := range o.shape.fields {
		if idx, isInt := tryParseArrayIndex(f.name); isInt {
			integerIndices = append(integerIndices, idx)
		} else {
			stringKeys = append(stringKeys, f.name)
		}
	}

	sort.Ints(integerIndices)

	result := make([]string, 0, len(integerIndices)+len(stringKeys))
	for _, idx := range integerIndices {
		result = append(result, intToString(idx))
	}
	return append(result, stringKeys...)
}

// tryParseArrayIndex checks if a string represents a valid array index:
// a non-negative integer in [0, 2^32-1) without leading zeros.
func tryParseArrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	if len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	idx := 0
	for _, ch := range key {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		idx = idx*10 + int(ch-'0')
		if idx > 4294967294 {
			return 0, false
		}
	}
	return idx, true
}

func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Get looks up a property by name, walking the prototype chain if necessary.
// Accessor properties along the chain yield the Undefined placeholder, not
// the getter's result; callers that care use GetOwnAccessor.
func (o *PlainObject) Get(name string) (Value, bool) {
	if value, exists := o.GetOwn(name); exists {
		return value, true
	}

	current := o.prototype
	for current.typ != TypeNull && current.typ != TypeUndefined {
		if proto := current.AsPlainObject(); proto != nil {
			if value, exists := proto.GetOwn(name); exists {
				return value, true
			}
			current = proto.prototype
		} else if dict := current.AsDictObject(); dict != nil {
			if value, exists := dict.GetOwn(name); exists {
				return value, true
			}
			current = dict.prototype
		} else {
			break
		}
	}

	return Undefined, false
}

// Has reports whether a property with the given name exists (own or inherited).
func (o *PlainObject) Has(name string) bool {
	_, exists := o.Get(name)
	return exists
}

// GetPrototype returns the object's prototype.
func (o *PlainObject) GetPrototype() Value {
	return o.prototype
}

// SetPrototype sets the object's prototype.
// Returns true if successful, false if the object is non-extensible.
func (o *PlainObject) SetPrototype(proto Value) bool {
	// ES6 9.1.2 [[SetPrototypeOf]]
	if proto.Is(o.prototype) {
		return true
	}
	if !o.extensible {
		return false
	}
	o.prototype = proto
	return true
}

// IsExtensible returns whether new properties can be added to this object.
func (o *PlainObject) IsExtensible() bool {
	return o.extensible
}

// SetExtensible sets the extensible flag. Per ECMAScript, once false it
// cannot be set back to true; such attempts are silently ignored.
func (o *PlainObject) SetExtensible(extensible bool) {
	if !extensible {
		o.extensible = false
	}
}

// Seal makes every own property non-configurable and the object
// non-extensible.
func (o *PlainObject) Seal() {
	o.detachShape()
	for i := range o.shape.fields {
		o.shape.fields[i].configurable = false
	}
	o.extensible = false
}

// Freeze seals the object and additionally makes every own data property
// non-writable.
func (o *PlainObject) Freeze() {
	o.detachShape()
	for i := range o.shape.fields {
		o.shape.fields[i].configurable = false
		if !o.shape.fields[i].isAccessor {
			o.shape.fields[i].writable = false
		}
	}
	o.extensible = false
}

// IsSealed reports whether the object is non-extensible with every own
// property non-configurable.
func (o *PlainObject) IsSealed() bool {
	if o.extensible {
		return false
	}
	for _, f := range o.shape.fields {
		if f.configurable {
			return false
		}
	}
	return true
}

// IsFrozen reports whether the object is sealed and every own data property
// is non-writable.
func (o *PlainObject) IsFrozen() bool {
	if !o.IsSealed() {
		return false
	}
	for _, f := range o.shape.fields {
		if !f.isAccessor && f.writable {
			return false
		}
	}
	return true
}

// DictObject is the map-backed fallback object: every property is a
// writable, enumerable, configurable data property.
type DictObject struct {
	Object
	prototype  Value
	properties map[string]Value
	extensible bool
}

// GetOwn looks up a direct property by name. Returns (value, true) if present.
func (d *DictObject) GetOwn(name string) (Value, bool) {
	v, ok := d.properties[name]
	if !ok {
		return Undefined, false
	}
	return v, true
}

// GetOwnDescriptor returns default data property attributes (true, true, true) if present.
func (d *DictObject) GetOwnDescriptor(name string) (Value, bool, bool, bool, bool) {
	if v, ok := d.properties[name]; ok {
		return v, true, true, true, true
	}
	return Undefined, false, false, false, false
}

// SetOwn sets or defines an own property.
func (d *DictObject) SetOwn(name string, v Value) {
	if _, ok := d.properties[name]; !ok && !d.extensible {
		return
	}
	d.properties[name] = v
}

// HasOwn reports whether an own property with the given name exists.
func (d *DictObject) HasOwn(name string) bool {
	_, ok := d.properties[name]
	return ok
}

// DeleteOwn deletes an own property. Returns true if deleted.
func (d *DictObject) DeleteOwn(name string) bool {
	if _, ok := d.properties[name]; ok {
		delete(d.properties, name)
		return true
	}
	return false
}

// OwnKeys returns the sorted list of own property names. Dict objects keep
// no insertion record, so sorted order stands in for deterministic
// enumeration.
func (d *DictObject) OwnKeys() []string {
	keys := make([]string, 0, len(d.properties))
	for k := range d.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OwnPropertyNames is an alias for OwnKeys; dict objects have no
// non-enumerable properties.
func (d *DictObject) OwnPropertyNames() []string {
	return d.OwnKeys()
}

// IsExtensible returns whether new properties can be added to this object.
func (d *DictObject) IsExtensible() bool {
	return d.extensible
}

// SetExtensible sets the extensible flag (one-way to false).
func (d *DictObject) SetExtensible(extensible bool) {
	if !extensible {
		d.extensible = false
	}
}

// GetPrototype returns the object's prototype.
func (d *DictObject) GetPrototype() Value {
	return d.prototype
}

// SetPrototype sets the object's prototype.
func (d *DictObject) SetPrototype(proto Value) bool {
	if proto.Is(d.prototype) {
		return true
	}
	if !d.extensible {
		return false
	}
	d.prototype = proto
	return true
}

// Get looks up a property by name, walking the prototype chain if necessary.
func (d *DictObject) Get(name string) (Value, bool) {
	if value, exists := d.GetOwn(name); exists {
		return value, true
	}

	current := d.prototype
	for current.typ != TypeNull && current.typ != TypeUndefined {
		if proto := current.AsPlainObject(); proto != nil {
			if value, exists := proto.GetOwn(name); exists {
				return value, true
			}
			current = proto.prototype
		} else if dict := current.AsDictObject(); dict != nil {
			if value, exists := dict.GetOwn(name); exists {
				return value, true
			}
			current = dict.prototype
		} else {
			break
		}
	}

	return Undefined, false
}

// Has reports whether a property with the given name exists (own or inherited).
func (d *DictObject) Has(name string) bool {
	_, exists := d.Get(name)
	return exists
}

// DefaultObjectPrototype is the shared prototype for plain objects created
// before a runtime installs its own Object.prototype.
var DefaultObjectPrototype Value
var RootShape *Shape

func init() {
	RootShape = &Shape{
		fields:      []Field{},
		transitions: make(map[string]*Shape),
	}
	// The default prototype is an object whose own prototype is Null.
	protoObj := &PlainObject{prototype: Null, shape: RootShape, extensible: true}
	DefaultObjectPrototype = Value{typ: TypeObject, obj: unsafe.Pointer(protoObj)}
}

func NewObject(proto Value) Value {
	prototype := DefaultObjectPrototype
	if proto.IsObject() || proto.typ == TypeNull {
		prototype = proto
	}
	plainObj := &PlainObject{prototype: prototype, shape: RootShape, extensible: true}
	return Value{typ: TypeObject, obj: unsafe.Pointer(plainObj)}
}

func NewDictObject(proto Value) Value {
	prototype := DefaultObjectPrototype
	if proto.IsObject() || proto.typ == TypeNull {
		prototype = proto
	}
	dictObj := &DictObject{prototype: prototype, properties: make(map[string]Value), extensible: true}
	return Value{typ: TypeDictObject, obj: unsafe.Pointer(dictObj)}
}
