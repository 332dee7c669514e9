// Package mapper is the public facade of the object graph mapping engine.
// A Mapper owns its configuration, its routine cache and its registered
// casters; independent mappers never observe each other's rules.
package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"automapper/internal/plan"
	"automapper/internal/rules"
	"automapper/options"
)

// ErrNotAStruct reports a mapping request whose source or target is not a
// struct or pointer to struct.
var ErrNotAStruct = errors.New("mapping requires struct source and target")

// Option configures a Mapper at construction time.
type Option func(*plan.Options)

// WithStrict makes conversion failures surface as errors instead of
// silently keeping target defaults.
func WithStrict() Option {
	return func(o *plan.Options) { o.Strict = true }
}

// WithCategories restricts the permitted primitive coercion families.
// The default permits all of them.
func WithCategories(cats options.CategoryEnum) Option {
	return func(o *plan.Options) { o.Categories = cats }
}

// WithMaxDepth overrides the graph recursion limit.
func WithMaxDepth(depth int) Option {
	return func(o *plan.Options) { o.MaxDepth = depth }
}

// Mapper converts values between struct types by matching fields by name,
// applying configured renames and ignores, and coercing compatible
// primitive representations.
type Mapper struct {
	store   *rules.Store
	casters *plan.CasterRegistry
	types   *rules.TypeRegistry
	engine  *plan.Engine
}

// New builds an empty mapper. With no further configuration it maps any
// struct pair by exact field name.
func New(opts ...Option) *Mapper {
	po := plan.Options{Categories: options.CategoryAll}
	for _, opt := range opts {
		opt(&po)
	}

	store := rules.NewStore()
	casters := plan.NewCasterRegistry()

	m := &Mapper{
		store:   store,
		casters: casters,
		types:   rules.NewTypeRegistry(),
		engine:  plan.NewEngine(store, casters, po),
	}

	store.OnChange(m.engine.Invalidate)

	return m
}

// RegisterCaster installs a custom conversion function of the form
// func(S) D, optionally returning a bool and/or an error after D. A
// registered caster takes precedence over every built-in strategy for its
// type pair.
func (m *Mapper) RegisterCaster(fn any) error {
	caster, err := plan.ParseCaster(fn)
	if err != nil {
		return err
	}

	m.casters.Add(caster)
	m.engine.Reset()

	return nil
}

// RegisterTypes makes the given struct types addressable by name in rule
// files loaded through LoadRules.
func (m *Mapper) RegisterTypes(values ...any) error {
	return m.types.Register(values...)
}

// LoadRules parses a YAML rule document and applies its renames and
// ignores. Types named in the document must be registered beforehand and
// every referenced field must exist; a failed document applies nothing.
func (m *Mapper) LoadRules(data []byte) error {
	f, err := rules.Parse(data)
	if err != nil {
		return err
	}

	return f.Apply(m.types, m.store)
}

// Map converts src into a freshly built Dst. Unconvertible members keep
// their defaults unless the mapper is strict. A nil source pointer yields
// the Dst zero value.
func Map[Dst any](m *Mapper, src any) (Dst, error) {
	var out Dst

	dstType := reflect.TypeFor[Dst]()
	if baseKind(dstType) != reflect.Struct {
		return out, fmt.Errorf("%w: target %s", ErrNotAStruct, dstType)
	}

	sv := reflect.ValueOf(src)
	if !sv.IsValid() {
		return out, nil
	}

	if baseKind(sv.Type()) != reflect.Struct {
		return out, fmt.Errorf("%w: source %s", ErrNotAStruct, sv.Type())
	}

	dv, err := m.engine.Convert(sv, dstType)
	if err != nil {
		return out, err
	}

	if dv.IsValid() {
		out = dv.Interface().(Dst)
	}

	return out, nil
}

// MapAll converts a slice element-wise, preserving order and cardinality.
// A nil input yields a nil output.
func MapAll[Dst, Src any](m *Mapper, src []Src) ([]Dst, error) {
	if src == nil {
		return nil, nil
	}

	out := make([]Dst, len(src))

	for i := range src {
		dv, err := Map[Dst](m, src[i])
		if err != nil {
			return nil, err
		}

		out[i] = dv
	}

	return out, nil
}

func baseKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind()
}
