// Package plan builds, caches, and executes the reusable mapping routines
// of the engine: for a (source, target) struct pair it decides per target
// field where the value comes from and which conversion strategy applies.
package plan

import (
	"automapper/internal/rules"
)

// Strategy describes how a target field's value is produced.
type Strategy int

const (
	// StrategyUnsupported - no conversion exists; the field keeps its default.
	StrategyUnsupported Strategy = iota
	// StrategyCast - call a registered custom caster function.
	StrategyCast
	// StrategyDirectAssign - direct assignment (source is assignable to target).
	StrategyDirectAssign
	// StrategyEnumCoerce - convert between defined integer types via the underlying ordinal.
	StrategyEnumCoerce
	// StrategySliceMap - map over slice or array elements, preserving order.
	StrategySliceMap
	// StrategyMapCopy - copy a map, converting keys and values.
	StrategyMapCopy
	// StrategyNestedCast - recursively map a nested struct through the same pipeline.
	StrategyNestedCast
	// StrategyCoerce - best-effort primitive coercion (numbers, text, time).
	StrategyCoerce
	// StrategyDynamic - source is an interface; dispatch on the runtime value.
	StrategyDynamic
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyUnsupported:
		return "unsupported"
	case StrategyCast:
		return "cast"
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyEnumCoerce:
		return "enum_coerce"
	case StrategySliceMap:
		return "slice_map"
	case StrategyMapCopy:
		return "map_copy"
	case StrategyNestedCast:
		return "nested_cast"
	case StrategyCoerce:
		return "coerce"
	case StrategyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Step is one planned target-field assignment.
type Step struct {
	// TargetField is the field being populated.
	TargetField string
	// TargetIndex is the field's index in the target struct.
	TargetIndex int
	// SourceField is the field feeding the value (rename-aware).
	SourceField string
	// SourceIndex is the field's index in the source struct.
	SourceIndex int
	// Strategy describes how the value is converted.
	Strategy Strategy
	// Explanation describes why this strategy was chosen.
	Explanation string
}

// UnmappedField is a target field no step assigns, with the reason.
type UnmappedField struct {
	Name   string
	Reason string
}

// Routine is the reusable mapping plan for one type pair. It is immutable
// after construction; configuration changes replace the cache entry instead
// of mutating it.
type Routine struct {
	// Pair identifies the source and target struct types.
	Pair rules.Pair
	// Steps are the planned assignments in target-field order.
	Steps []Step
	// Unmapped lists target fields left at their default value.
	Unmapped []UnmappedField
}
