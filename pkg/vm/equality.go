package vm

import (
	"fmt"
	"math"
)

// StrictlyEquals compares two values using the ECMAScript Strict Equality
// Comparison (`===`). Types must match, no coercion. NaN !== NaN. +0 === -0.
func (v Value) StrictlyEquals(other Value) bool {
	// Handle cross-numeric comparison: IntegerNumber and FloatNumber are both
	// JavaScript "number" type
	if v.IsNumber() && other.IsNumber() {
		vf := v.ToFloat()
		of := other.ToFloat()
		// Strict equality: NaN !== NaN
		if math.IsNaN(vf) || math.IsNaN(of) {
			return false
		}
		return vf == of
	}

	if v.typ != other.typ {
		return false // Different types are never strictly equal
	}

	switch v.typ {
	case TypeUndefined, TypeNull:
		return true // Singleton types are always equal to themselves
	case TypeBoolean:
		return v.AsBoolean() == other.AsBoolean()
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeSymbol:
		// Symbols are only equal if they are the *same* object (reference)
		return v.obj == other.obj
	case TypeObject, TypeDictObject, TypeArray, TypeNativeFunction, TypeNativeFunctionWithProps:
		// Objects and functions are equal only by reference
		return v.obj == other.obj
	default:
		panic(fmt.Sprintf("Unhandled type in StrictlyEquals comparison: %v", v.typ))
	}
}

// SameValue implements the ECMAScript SameValue algorithm (Object.is).
// It refines === in exactly two respects: +0 and -0 are distinct, and NaN
// is identical to itself.
func (v Value) SameValue(other Value) bool {
	if v.StrictlyEquals(other) {
		if v.IsNumber() && other.IsNumber() {
			// === conflates +0 and -0; the reciprocals tell them apart
			// (1/+0 is +Inf, 1/-0 is -Inf). A no-op for any nonzero value.
			vf := v.ToFloat()
			of := other.ToFloat()
			return vf != 0 || 1/vf == 1/of
		}
		return true
	}
	// The only pair === misclassifies as unequal is NaN with itself: a
	// number is NaN exactly when it compares unequal to itself.
	return v.isSelfUnequalNumber() && other.isSelfUnequalNumber()
}

func (v Value) isSelfUnequalNumber() bool {
	if !v.IsNumber() {
		return false
	}
	f := v.ToFloat()
	return f != f
}

// Is compares two values for equality based on the ECMAScript SameValueZero
// algorithm. NaN equals NaN, +0 equals -0. Used by collections and by the
// prototype-cycle check in SetPrototype.
func (v Value) Is(other Value) bool {
	if v.typ != other.typ {
		// Handle cross-Number type comparisons for SameValueZero
		if v.IsNumber() && other.IsNumber() {
			vf := v.ToFloat()
			of := other.ToFloat()
			if math.IsNaN(vf) && math.IsNaN(of) {
				return true
			}
			// Float comparison handles +0/-0 correctly
			return vf == of
		}
		return false
	}

	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.AsBoolean() == other.AsBoolean()
	case TypeIntegerNumber:
		return v.AsInteger() == other.AsInteger()
	case TypeFloatNumber:
		vf := v.AsFloat()
		of := other.AsFloat()
		if math.IsNaN(vf) && math.IsNaN(of) {
			return true
		}
		return vf == of
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeSymbol:
		return v.obj == other.obj
	case TypeObject, TypeDictObject, TypeArray, TypeNativeFunction, TypeNativeFunctionWithProps:
		return v.obj == other.obj
	default:
		panic(fmt.Sprintf("Unhandled type in Is comparison: %v", v.typ))
	}
}
