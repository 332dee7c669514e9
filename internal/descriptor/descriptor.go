// Package descriptor enumerates the mappable properties of struct types.
//
// In Go the readable and writable property sets coincide: exported fields.
// Enumeration follows declaration order, which is stable for a given type
// within a process run.
package descriptor

import (
	"reflect"
)

// Field describes one exported struct field.
type Field struct {
	// Name is the field's exported identifier.
	Name string
	// Index is the field's position in the struct type, usable with
	// reflect.Value.Field.
	Index int
	// Type is the field's declared type.
	Type reflect.Type
}

// Fields returns the exported fields of a struct type in declaration order.
// Non-struct types have no fields. Embedded fields participate under their
// type name, like any other exported field.
func Fields(t reflect.Type) []Field {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]Field, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		fields = append(fields, Field{Name: sf.Name, Index: i, Type: sf.Type})
	}

	return fields
}

// FieldByName returns the exported field with the given name.
func FieldByName(t reflect.Type, name string) (Field, bool) {
	for _, f := range Fields(t) {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// HasField reports whether the struct type declares an exported field with
// the given name.
func HasField(t reflect.Type, name string) bool {
	_, ok := FieldByName(t, name)
	return ok
}
