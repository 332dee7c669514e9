package plan

import (
	"reflect"

	"automapper/internal/match"
	"automapper/internal/rules"
	"automapper/primitive"
)

// Strategy explanation constants.
const (
	explCast        = "custom caster"
	explEnumOrdinal = "enum ordinal"
	explSliceMap    = "slice map"
	explMapCopy     = "map copy"
	explNested      = "nested struct"
	explCoercion    = "primitive coercion"
	explDynamic     = "dynamic source"
	explDoublePtr   = "double pointer"
)

// selectStrategy decides the conversion strategy for one source/target value
// type pair, in priority order: registered caster, direct assignment, enum
// ordinal, sequence, map, primitive coercion, nested struct. Pointer shapes
// are normalized here; the executor dereferences and wraps at apply time.
func (r *Resolver) selectStrategy(srcType, dstType reflect.Type) (Strategy, string) {
	srcDepth, srcBase := ptrDepthAndBase(srcType)
	dstDepth, dstBase := ptrDepthAndBase(dstType)

	if srcDepth > 1 || dstDepth > 1 {
		return StrategyUnsupported, explDoublePtr
	}

	if _, ok := r.casters.Lookup(rules.PairOf(srcType, dstType)); ok {
		return StrategyCast, explCast
	}

	if _, ok := r.casters.Lookup(rules.PairOf(srcBase, dstBase)); ok {
		return StrategyCast, explCast
	}

	// identical and assignable base types always take the cheap path
	if compat := match.Score(srcBase, dstBase); compat.Compatibility >= match.TypeAssignable {
		return StrategyDirectAssign, compat.Compatibility.String()
	}

	if srcBase.Kind() == reflect.Interface {
		return StrategyDynamic, explDynamic
	}

	if primitive.IsEnumLike(srcBase) && primitive.IsEnumLike(dstBase) {
		return StrategyEnumCoerce, explEnumOrdinal
	}

	if isSequence(srcBase) && isSequence(dstBase) {
		return StrategySliceMap, explSliceMap
	}

	if srcBase.Kind() == reflect.Map && dstBase.Kind() == reflect.Map {
		return StrategyMapCopy, explMapCopy
	}

	if primitive.FromReflectType(srcBase) != 0 && primitive.FromReflectType(dstBase) != 0 {
		return StrategyCoerce, explCoercion
	}

	if srcBase.Kind() == reflect.Struct && dstBase.Kind() == reflect.Struct {
		return StrategyNestedCast, explNested
	}

	return StrategyUnsupported, match.VerdictIncompatible
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (int, reflect.Type) {
	depth := 0
	for t.Kind() == reflect.Pointer {
		depth++
		t = t.Elem()
	}

	return depth, t
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
