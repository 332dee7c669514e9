package plan

import (
	"fmt"

	"automapper/internal/descriptor"
	"automapper/internal/rules"
)

// Resolver is the conversion planner. It consults the rule store and the
// caster registry to resolve a routine for a struct type pair.
type Resolver struct {
	rules   *rules.Store
	casters *CasterRegistry
}

// NewResolver creates a planner over the given rule store and casters.
func NewResolver(store *rules.Store, casters *CasterRegistry) *Resolver {
	return &Resolver{rules: store, casters: casters}
}

// Plan resolves the mapping routine for a struct type pair. For every target
// field it decides whether the field participates, which source field feeds
// it, and the conversion strategy. Fields that cannot participate are
// recorded in Unmapped with the reason and keep their default value.
func (r *Resolver) Plan(p rules.Pair) *Routine {
	rt := &Routine{Pair: p}

	for _, dstField := range descriptor.Fields(p.Dst) {
		if r.rules.IsIgnored(p, dstField.Name) {
			rt.Unmapped = append(rt.Unmapped, UnmappedField{
				Name:   dstField.Name,
				Reason: "ignored by configuration",
			})

			continue
		}

		srcName := dstField.Name

		renamed := false
		if name, ok := r.rules.RenameFor(p, dstField.Name); ok {
			srcName = name
			renamed = true
		}

		srcField, ok := descriptor.FieldByName(p.Src, srcName)
		if !ok {
			rt.Unmapped = append(rt.Unmapped, UnmappedField{
				Name:   dstField.Name,
				Reason: fmt.Sprintf("no source field %q", srcName),
			})

			continue
		}

		strategy, explanation := r.selectStrategy(srcField.Type, dstField.Type)
		if strategy == StrategyUnsupported {
			rt.Unmapped = append(rt.Unmapped, UnmappedField{
				Name: dstField.Name,
				Reason: fmt.Sprintf("unsupported conversion %s -> %s (%s)",
					srcField.Type, dstField.Type, explanation),
			})

			continue
		}

		if renamed {
			explanation += " (renamed)"
		}

		rt.Steps = append(rt.Steps, Step{
			TargetField: dstField.Name,
			TargetIndex: dstField.Index,
			SourceField: srcField.Name,
			SourceIndex: srcField.Index,
			Strategy:    strategy,
			Explanation: explanation,
		})
	}

	return rt
}
