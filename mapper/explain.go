package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"automapper/internal/rules"
)

// StepInfo describes one planned member assignment.
type StepInfo struct {
	Target      string
	Source      string
	Strategy    string
	Explanation string
}

// UnmappedInfo describes a target member the plan leaves at its default.
type UnmappedInfo struct {
	Name   string
	Reason string
}

// PlanReport is a human-readable account of how a pair will be mapped.
type PlanReport struct {
	Pair     string
	Steps    []StepInfo
	Unmapped []UnmappedInfo
}

// String renders the report one decision per line.
func (r PlanReport) String() string {
	var sb strings.Builder

	fmt.Fprintln(&sb, r.Pair)

	for _, s := range r.Steps {
		fmt.Fprintf(&sb, "  %s <- %s [%s] %s\n", s.Target, s.Source, s.Strategy, s.Explanation)
	}

	for _, u := range r.Unmapped {
		fmt.Fprintf(&sb, "  %s <- (unmapped) %s\n", u.Name, u.Reason)
	}

	return sb.String()
}

// Explain reports the mapping plan the mapper would execute for the pair,
// reflecting its current rules and casters.
func Explain[Src, Dst any](m *Mapper) (PlanReport, error) {
	srcType := reflect.TypeFor[Src]()
	dstType := reflect.TypeFor[Dst]()

	if srcType.Kind() != reflect.Struct || dstType.Kind() != reflect.Struct {
		return PlanReport{}, fmt.Errorf("%w: %s -> %s", ErrNotAStruct, srcType, dstType)
	}

	rt := m.engine.Routine(rules.PairOf(srcType, dstType))

	report := PlanReport{Pair: rt.Pair.String()}

	for _, st := range rt.Steps {
		report.Steps = append(report.Steps, StepInfo{
			Target:      st.TargetField,
			Source:      st.SourceField,
			Strategy:    st.Strategy.String(),
			Explanation: st.Explanation,
		})
	}

	for _, u := range rt.Unmapped {
		report.Unmapped = append(report.Unmapped, UnmappedInfo{Name: u.Name, Reason: u.Reason})
	}

	return report, nil
}
