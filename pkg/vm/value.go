package vm

import (
	"math"
	"strconv"
	"strings"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeString
	TypeSymbol

	TypeFloatNumber
	TypeIntegerNumber

	TypeBoolean

	TypeNativeFunction
	TypeNativeFunctionWithProps

	TypeObject
	TypeDictObject

	TypeArray
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeNativeFunction, TypeNativeFunctionWithProps:
		return "native function"
	case TypeObject:
		return "object"
	case TypeDictObject:
		return "dict object"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

type StringObject struct {
	Object
	value string
}

type SymbolObject struct {
	Object
	value string
}

// ArrayObject is the minimal dense array used by builtins that return key
// lists (Object.keys and friends). It is not a general-purpose exotic array.
type ArrayObject struct {
	Object
	elements []Value
}

func (a *ArrayObject) Length() int { return len(a.elements) }

func (a *ArrayObject) Append(v Value) { a.elements = append(a.elements, v) }

// Elements returns the backing slice; callers must not grow it.
func (a *ArrayObject) Elements() []Value { return a.elements }

func (a *ArrayObject) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Undefined
	}
	return a.elements[i]
}

// Value is a tagged JavaScript value. Float numbers keep their raw IEEE-754
// bits in payload so -0 and NaN payloads survive round-trips.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(int64(value))}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

func NewSymbol(value string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{value: value})}
}

func NewArray() Value {
	return Value{typ: TypeArray, obj: unsafe.Pointer(&ArrayObject{})}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }

func (v Value) IsNull() bool { return v.typ == TypeNull }

func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}

func (v Value) IsFloatNumber() bool { return v.typ == TypeFloatNumber }

func (v Value) IsString() bool { return v.typ == TypeString }

func (v Value) IsSymbol() bool { return v.typ == TypeSymbol }

func (v Value) IsBoolean() bool { return v.typ == TypeBoolean }

// IsObject reports whether the value participates in the object model
// (plain or dict object). Arrays and functions are object-like but are not
// valid targets for the property-definition primitives.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeDictObject
}

func (v Value) IsCallable() bool {
	return v.typ == TypeNativeFunction || v.typ == TypeNativeFunctionWithProps
}

func (v Value) AsBoolean() bool { return v.payload != 0 }

func (v Value) AsFloat() float64 { return math.Float64frombits(v.payload) }

func (v Value) AsInteger() int32 { return int32(int64(v.payload)) }

func (v Value) AsString() string {
	return (*StringObject)(v.obj).value
}

func (v Value) AsSymbol() string {
	return (*SymbolObject)(v.obj).value
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		return nil
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsDictObject() *DictObject {
	if v.typ != TypeDictObject {
		return nil
	}
	return (*DictObject)(v.obj)
}

func (v Value) AsArray() *ArrayObject {
	if v.typ != TypeArray {
		return nil
	}
	return (*ArrayObject)(v.obj)
}

func (v Value) AsNativeFunction() *NativeFunctionObject {
	if v.typ != TypeNativeFunction {
		return nil
	}
	return (*NativeFunctionObject)(v.obj)
}

func (v Value) AsNativeFunctionWithProps() *NativeFunctionObjectWithProps {
	if v.typ != TypeNativeFunctionWithProps {
		return nil
	}
	return (*NativeFunctionObjectWithProps)(v.obj)
}

func NewValueFromPlainObject(plainObj *PlainObject) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(plainObj)}
}

// ToFloat coerces the value to a float64 following ECMAScript ToNumber for
// the types this runtime models.
func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeFloatNumber:
		return v.AsFloat()
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	case TypeBoolean:
		if v.AsBoolean() {
			return 1
		}
		return 0
	case TypeNull:
		return 0
	case TypeString:
		s := strings.TrimSpace(v.AsString())
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToString converts the value to its string representation.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeIntegerNumber:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case TypeFloatNumber:
		return formatFloat(v.AsFloat())
	case TypeString:
		return v.AsString()
	case TypeSymbol:
		return "Symbol(" + v.AsSymbol() + ")"
	case TypeNativeFunction:
		return "function " + v.AsNativeFunction().Name + "() { [native code] }"
	case TypeNativeFunctionWithProps:
		return "function " + v.AsNativeFunctionWithProps().Name + "() { [native code] }"
	case TypeArray:
		arr := v.AsArray()
		parts := make([]string, len(arr.elements))
		for i, el := range arr.elements {
			if el.typ == TypeUndefined || el.typ == TypeNull {
				parts[i] = ""
				continue
			}
			parts[i] = el.ToString()
		}
		return strings.Join(parts, ",")
	case TypeObject, TypeDictObject:
		return "[object Object]"
	default:
		return "<unknown>"
	}
}

// TypeOf implements the typeof operator for the modeled types.
func (v Value) TypeOf() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object" // typeof null is "object"
	case TypeBoolean:
		return "boolean"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeNativeFunction, TypeNativeFunctionWithProps:
		return "function"
	default:
		return "object"
	}
}

// IsFalsey checks if the value is considered falsey according to ECMAScript
// rules. null, undefined, false, +0, -0, NaN, "" are falsey.
func (v Value) IsFalsey() bool {
	switch v.typ {
	case TypeNull, TypeUndefined:
		return true
	case TypeBoolean:
		return !v.AsBoolean()
	case TypeFloatNumber:
		f := v.AsFloat()
		return f == 0 || math.IsNaN(f) // Catches +0, -0, NaN
	case TypeIntegerNumber:
		return v.AsInteger() == 0
	case TypeString:
		return v.AsString() == ""
	default:
		return false
	}
}

// IsTruthy checks if the value is considered truthy (opposite of IsFalsey).
func (v Value) IsTruthy() bool {
	return !v.IsFalsey()
}

// formatFloat renders a float the way JS Number -> String does for the
// common cases: integral values without a decimal point, NaN and the
// infinities by name.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		// Both zeros stringify as "0"; the sign is only observable through
		// SameValue and division
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return cleanExponentialFormat(strconv.FormatFloat(f, 'g', -1, 64))
}

// cleanExponentialFormat removes leading zeros from exponent to match JS
// format, e.g. "1e-07" -> "1e-7".
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				expStart := i + 2
				j := expStart
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}
