package descriptor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Embedded struct{ Tag string }

type sample struct {
	Name   string
	age    int
	Score  float64
	hidden bool
	Embedded
}

func TestFieldsDeclarationOrder(t *testing.T) {
	fields := Fields(reflect.TypeFor[sample]())

	require.Len(t, fields, 3)
	assert.Equal(t, "Name", fields[0].Name)
	assert.Equal(t, "Score", fields[1].Name)
	assert.Equal(t, "Embedded", fields[2].Name)

	assert.Equal(t, 0, fields[0].Index)
	assert.Equal(t, 2, fields[1].Index)
	assert.Equal(t, reflect.TypeFor[float64](), fields[1].Type)
}

func TestFieldsNonStruct(t *testing.T) {
	assert.Nil(t, Fields(reflect.TypeFor[int]()))
	assert.Nil(t, Fields(nil))
}

func TestFieldByName(t *testing.T) {
	f, ok := FieldByName(reflect.TypeFor[sample](), "Score")
	require.True(t, ok)
	assert.Equal(t, 2, f.Index)

	_, ok = FieldByName(reflect.TypeFor[sample](), "age")
	assert.False(t, ok, "unexported fields are not mappable")

	assert.True(t, HasField(reflect.TypeFor[sample](), "Name"))
	assert.False(t, HasField(reflect.TypeFor[sample](), "Nope"))
}
