package mapper

import (
	"fmt"
	"reflect"

	"automapper/internal/descriptor"
	"automapper/internal/rules"
)

// PairBuilder accumulates rename and ignore rules for one source/target
// pair. Builder calls after a failure are no-ops; the first failure is
// reported by Err.
type PairBuilder[Src, Dst any] struct {
	store *rules.Store
	pair  rules.Pair
	err   error
}

// Configure opens a rule builder for the Src to Dst pair.
func Configure[Src, Dst any](m *Mapper) *PairBuilder[Src, Dst] {
	b := &PairBuilder[Src, Dst]{
		store: m.store,
		pair:  rules.PairOf(reflect.TypeFor[Src](), reflect.TypeFor[Dst]()),
	}

	if b.pair.Src.Kind() != reflect.Struct || b.pair.Dst.Kind() != reflect.Struct {
		b.err = fmt.Errorf("%w: %s", ErrNotAStruct, b.pair)
	}

	return b
}

// ForMember maps the target member addressed by dst from the source member
// addressed by src instead of matching by name.
func (b *PairBuilder[Src, Dst]) ForMember(dst func(*Dst) any, src func(*Src) any) *PairBuilder[Src, Dst] {
	if b.err != nil {
		return b
	}

	dstName, err := memberName(dst)
	if err != nil {
		b.err = err
		return b
	}

	srcName, err := memberName(src)
	if err != nil {
		b.err = err
		return b
	}

	b.store.SetRename(b.pair, dstName, srcName)

	return b
}

// ForMemberNames is the string form of ForMember for callers that resolve
// member names externally, such as rule file tooling.
func (b *PairBuilder[Src, Dst]) ForMemberNames(dstName, srcName string) *PairBuilder[Src, Dst] {
	if b.err != nil {
		return b
	}

	if err := b.checkField(b.pair.Dst, dstName); err != nil {
		b.err = err
		return b
	}

	if err := b.checkField(b.pair.Src, srcName); err != nil {
		b.err = err
		return b
	}

	b.store.SetRename(b.pair, dstName, srcName)

	return b
}

// Ignore excludes the addressed target member from mapping; it keeps its
// default value.
func (b *PairBuilder[Src, Dst]) Ignore(dst func(*Dst) any) *PairBuilder[Src, Dst] {
	if b.err != nil {
		return b
	}

	name, err := memberName(dst)
	if err != nil {
		b.err = err
		return b
	}

	b.store.SetIgnored(b.pair, name)

	return b
}

// IgnoreName is the string form of Ignore.
func (b *PairBuilder[Src, Dst]) IgnoreName(dstName string) *PairBuilder[Src, Dst] {
	if b.err != nil {
		return b
	}

	if err := b.checkField(b.pair.Dst, dstName); err != nil {
		b.err = err
		return b
	}

	b.store.SetIgnored(b.pair, dstName)

	return b
}

// Err reports the first builder failure, nil when every call succeeded.
func (b *PairBuilder[Src, Dst]) Err() error { return b.err }

func (b *PairBuilder[Src, Dst]) checkField(t reflect.Type, name string) error {
	if !descriptor.HasField(t, name) {
		return fmt.Errorf("type %s has no exported field %q", t, name)
	}

	return nil
}
