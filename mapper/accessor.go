package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"automapper/internal/descriptor"
)

// ErrNotAMember reports an accessor that does not return the address of a
// field of its argument.
var ErrNotAMember = errors.New("accessor does not address a struct member")

// memberName resolves an accessor of the form
//
//	func(v *T) any { return &v.Field }
//
// to the name of the addressed field. The accessor is invoked once against
// a zero instance and the returned address is matched against the field
// offsets of T.
func memberName[T any](accessor func(*T) any) (string, error) {
	probe := new(T)

	t := reflect.TypeOf(probe).Elem()
	if t.Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: %s is not a struct", ErrNotAMember, t)
	}

	got := reflect.ValueOf(accessor(probe))
	if got.Kind() != reflect.Pointer || got.IsNil() {
		return "", fmt.Errorf("%w: accessor for %s must return a field address", ErrNotAMember, t)
	}

	base := reflect.ValueOf(probe).Pointer()
	offset := got.Pointer() - base

	for _, f := range descriptor.Fields(t) {
		sf := t.Field(f.Index)
		if sf.Offset == offset && got.Type().Elem() == sf.Type {
			return f.Name, nil
		}
	}

	return "", fmt.Errorf("%w: no exported field of %s at the returned address", ErrNotAMember, t)
}
