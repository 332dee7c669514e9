// Package match scores the compatibility of a source and target value type.
// The planner consults the verdict to pick a conversion strategy.
package match

import (
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires an engine strategy
	// (coercion, nested mapping, collection mapping).
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// Result contains detailed information about type compatibility.
type Result struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

// Score determines the compatibility between a source and target type.
func Score(source, target reflect.Type) Result {
	res := Result{
		SourceType: source.String(),
		TargetType: target.String(),
	}

	switch {
	case source == target:
		res.Compatibility = TypeIdentical
		res.Reason = "types are identical"
	case source.AssignableTo(target):
		res.Compatibility = TypeAssignable
		res.Reason = "source is assignable to target"
	case source.ConvertibleTo(target):
		res.Compatibility = TypeConvertible
		res.Reason = "source is convertible to target"
	case needsTransform(source, target):
		res.Compatibility = TypeNeedsTransform
		res.Reason = "types require an engine strategy"
	default:
		res.Compatibility = TypeIncompatible
		res.Reason = "types are not compatible"
	}

	return res
}

// needsTransform checks for shapes the mapping engine knows how to bridge.
func needsTransform(source, target reflect.Type) bool {
	// Pointer lifts: *T -> T and T -> *T
	if source.Kind() == reflect.Pointer && target.Kind() != reflect.Pointer {
		if Score(source.Elem(), target).Compatibility >= TypeNeedsTransform {
			return true
		}
	}

	if source.Kind() != reflect.Pointer && target.Kind() == reflect.Pointer {
		if Score(source, target.Elem()).Compatibility >= TypeNeedsTransform {
			return true
		}
	}

	// Sequences with bridgeable element types
	if isSequence(source) && isSequence(target) {
		if Score(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform {
			return true
		}
	}

	// Maps with bridgeable key and value types
	if source.Kind() == reflect.Map && target.Kind() == reflect.Map {
		keyOK := Score(source.Key(), target.Key()).Compatibility >= TypeNeedsTransform
		elemOK := Score(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform

		if keyOK && elemOK {
			return true
		}
	}

	// Struct to struct (might have compatible fields)
	if source.Kind() == reflect.Struct && target.Kind() == reflect.Struct {
		return true
	}

	return false
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
