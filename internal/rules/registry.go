package rules

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeRegistry resolves the "pkgalias.Name" identifiers used in rule files
// to runtime types. Types must be registered before a rule file referencing
// them is applied.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]reflect.Type)}
}

// Register records the types of the given values under their
// "pkgalias.Name" identifiers. Pointer values register their element type.
func (r *TypeRegistry) Register(values ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range values {
		t := reflect.TypeOf(v)
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		if t == nil || t.Name() == "" || t.PkgPath() == "" {
			return fmt.Errorf("cannot register unnamed type %v", reflect.TypeOf(v))
		}

		r.types[TypeName(t)] = t
	}

	return nil
}

// Lookup resolves a rule-file type identifier.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]

	return t, ok
}
