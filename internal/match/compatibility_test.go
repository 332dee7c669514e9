package match

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type userID int

type inner struct{ N int }

type innerDTO struct{ N int64 }

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		source reflect.Type
		target reflect.Type
		want   TypeCompatibility
	}{
		{"same type", reflect.TypeFor[string](), reflect.TypeFor[string](), TypeIdentical},
		{"defined to interface", reflect.TypeFor[userID](), reflect.TypeFor[any](), TypeAssignable},
		{"defined int to int", reflect.TypeFor[userID](), reflect.TypeFor[int](), TypeConvertible},
		{"int to string is convertible", reflect.TypeFor[int](), reflect.TypeFor[string](), TypeConvertible},
		{"struct to struct", reflect.TypeFor[inner](), reflect.TypeFor[innerDTO](), TypeNeedsTransform},
		{"pointer lift to struct", reflect.TypeFor[*inner](), reflect.TypeFor[innerDTO](), TypeNeedsTransform},
		{"struct lift to pointer", reflect.TypeFor[inner](), reflect.TypeFor[*innerDTO](), TypeNeedsTransform},
		{"slices of mappable structs", reflect.TypeFor[[]inner](), reflect.TypeFor[[]innerDTO](), TypeNeedsTransform},
		{"maps of mappable values", reflect.TypeFor[map[string]inner](), reflect.TypeFor[map[string]innerDTO](), TypeNeedsTransform},
		{"func to struct", reflect.TypeFor[func()](), reflect.TypeFor[inner](), TypeIncompatible},
		{"chan to chan of different elems", reflect.TypeFor[chan int](), reflect.TypeFor[chan string](), TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.source, tt.target)
			assert.Equal(t, tt.want, res.Compatibility, res.Reason)
		})
	}
}

func TestCompatibilityOrdering(t *testing.T) {
	assert.Greater(t, TypeIdentical.Score(), TypeAssignable.Score())
	assert.Greater(t, TypeAssignable.Score(), TypeConvertible.Score())
	assert.Greater(t, TypeConvertible.Score(), TypeNeedsTransform.Score())
	assert.Greater(t, TypeNeedsTransform.Score(), TypeIncompatible.Score())
}

func TestCompatibilityString(t *testing.T) {
	assert.Equal(t, VerdictIdentical, TypeIdentical.String())
	assert.Equal(t, VerdictIncompatible, TypeIncompatible.String())
	assert.Equal(t, "unknown", TypeCompatibility(99).String())
}
