package rules

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID    int
	Total float64
}

type orderDTO struct {
	Reference int
	Amount    float64
}

func TestStoreRenameAndIgnore(t *testing.T) {
	store := NewStore()
	pair := PairOf(reflect.TypeFor[order](), reflect.TypeFor[orderDTO]())

	_, ok := store.RenameFor(pair, "Reference")
	assert.False(t, ok)

	store.SetRename(pair, "Reference", "ID")

	src, ok := store.RenameFor(pair, "Reference")
	require.True(t, ok)
	assert.Equal(t, "ID", src)

	// last write wins
	store.SetRename(pair, "Reference", "Total")

	src, _ = store.RenameFor(pair, "Reference")
	assert.Equal(t, "Total", src)

	assert.False(t, store.IsIgnored(pair, "Amount"))
	store.SetIgnored(pair, "Amount")
	assert.True(t, store.IsIgnored(pair, "Amount"))
}

func TestStoreRulesAreKeyedByPair(t *testing.T) {
	store := NewStore()
	forward := PairOf(reflect.TypeFor[order](), reflect.TypeFor[orderDTO]())
	reverse := PairOf(reflect.TypeFor[orderDTO](), reflect.TypeFor[order]())

	store.SetRename(forward, "Reference", "ID")
	store.SetIgnored(forward, "Amount")

	_, ok := store.RenameFor(reverse, "Reference")
	assert.False(t, ok)
	assert.False(t, store.IsIgnored(reverse, "Amount"))
}

func TestStoreOnChange(t *testing.T) {
	store := NewStore()
	pair := PairOf(reflect.TypeFor[order](), reflect.TypeFor[orderDTO]())

	var touched []Pair

	store.OnChange(func(p Pair) { touched = append(touched, p) })

	store.SetRename(pair, "Reference", "ID")
	store.SetIgnored(pair, "Amount")

	require.Len(t, touched, 2)
	assert.Equal(t, pair, touched[0])
	assert.Equal(t, pair, touched[1])
}

func TestPairString(t *testing.T) {
	pair := PairOf(reflect.TypeFor[order](), reflect.TypeFor[orderDTO]())
	assert.Equal(t, "rules.order -> rules.orderDTO", pair.String())
}
