package rules

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Customer struct {
	Name  string
	Email string
	Notes string
}

type CustomerDTO struct {
	FullName string
	Email    string
	Internal string
}

const customerRules = `
version: "1"
mappings:
  - source: rules.Customer
    target: rules.CustomerDTO
    fields:
      Name: FullName
    ignore:
      - Internal
`

func TestParseAndApply(t *testing.T) {
	f, err := Parse([]byte(customerRules))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Mappings, 1)

	reg := NewTypeRegistry()
	require.NoError(t, reg.Register(Customer{}, &CustomerDTO{}))

	store := NewStore()
	require.NoError(t, f.Apply(reg, store))

	pair := PairOf(reflect.TypeFor[Customer](), reflect.TypeFor[CustomerDTO]())

	src, ok := store.RenameFor(pair, "FullName")
	require.True(t, ok)
	assert.Equal(t, "Name", src)

	assert.True(t, store.IsIgnored(pair, "Internal"))
	assert.False(t, store.IsIgnored(pair, "Email"))
}

func TestParseRejectsEmptyAndIncomplete(t *testing.T) {
	_, err := Parse([]byte("version: \"1\"\n"))
	assert.ErrorIs(t, err, ErrEmptyRuleFile)

	_, err = Parse([]byte("mappings:\n  - source: rules.Customer\n"))
	assert.ErrorContains(t, err, "source and target are required")

	_, err = Parse([]byte("mappings: {not a list}\n"))
	assert.Error(t, err)
}

func TestApplyValidatesNames(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Register(Customer{}, CustomerDTO{}))

	store := NewStore()

	f := &File{Mappings: []TypeMapping{{
		Source: "rules.Unknown",
		Target: "rules.CustomerDTO",
	}}}
	assert.ErrorContains(t, f.Apply(reg, store), "unknown source type")

	f = &File{Mappings: []TypeMapping{{
		Source: "rules.Customer",
		Target: "rules.CustomerDTO",
		Fields: map[string]string{"Nope": "FullName"},
	}}}
	assert.ErrorContains(t, f.Apply(reg, store), `no field "Nope" in source type`)

	f = &File{Mappings: []TypeMapping{{
		Source: "rules.Customer",
		Target: "rules.CustomerDTO",
		Ignore: []string{"Nope"},
	}}}
	assert.ErrorContains(t, f.Apply(reg, store), `no field "Nope" in target type`)

	// a failed mapping applies none of its rules
	pair := PairOf(reflect.TypeFor[Customer](), reflect.TypeFor[CustomerDTO]())
	_, ok := store.RenameFor(pair, "FullName")
	assert.False(t, ok)
}

func TestRegistryRejectsUnnamed(t *testing.T) {
	reg := NewTypeRegistry()

	assert.Error(t, reg.Register(struct{ N int }{}))
	assert.Error(t, reg.Register(42))

	require.NoError(t, reg.Register(&Customer{}))

	typ, ok := reg.Lookup("rules.Customer")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Customer](), typ)
}
