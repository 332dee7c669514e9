// Package rules holds the per-type-pair mapping configuration: rename rules,
// ignore rules, the registry that resolves rule-file type names, and the
// YAML rule-file schema.
package rules

import (
	"path"
	"reflect"
)

// Pair identifies one (source type, target type) combination. It keys both
// the configuration store and the routine cache, so a configuration change
// for a pair can invalidate exactly that pair's routine.
type Pair struct {
	Src, Dst reflect.Type
}

// PairOf builds the pair key for the given source and target types.
func PairOf(src, dst reflect.Type) Pair {
	return Pair{Src: src, Dst: dst}
}

// String renders the pair as "pkg.Source -> pkg.Target".
func (p Pair) String() string {
	return TypeName(p.Src) + " -> " + TypeName(p.Dst)
}

// TypeName renders a type as "pkgalias.Name", the identifier form used by
// rule files. Unnamed types render with their reflect string form.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.PkgPath() != "" && t.Name() != "" {
		return path.Base(t.PkgPath()) + "." + t.Name()
	}

	return t.String()
}
