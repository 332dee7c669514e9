package plan

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"automapper/internal/rules"
	"automapper/options"
	"automapper/primitive"
)

var (
	// ErrCyclicGraph reports a source object graph that references itself.
	ErrCyclicGraph = errors.New("cyclic object graph detected")
	// ErrDepthExceeded reports a source graph nested beyond the depth limit.
	ErrDepthExceeded = errors.New("object graph exceeds maximum mapping depth")
)

// CoercionError reports a conversion that failed while strict mode is on.
// With strict mode off the same condition leaves the target at its default.
type CoercionError struct {
	Field  string
	Source reflect.Type
	Target reflect.Type
	Cause  error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s", e.Source, e.Target)
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *CoercionError) Unwrap() error { return e.Cause }

// DefaultMaxDepth bounds recursion for pathological graph shapes the cycle
// detector cannot see (such as self-referential interfaces).
const DefaultMaxDepth = 64

// Options are the execution knobs of an engine.
type Options struct {
	// Strict turns silent conversion failures into *CoercionError.
	Strict bool
	// Categories selects the permitted primitive coercion families.
	Categories options.CategoryEnum
	// MaxDepth bounds graph recursion; zero means DefaultMaxDepth.
	MaxDepth int
}

// Engine composes the planner and the routine cache and executes routines
// against live values. Each engine owns its cache; engines are fully
// isolated from one another.
type Engine struct {
	resolver *Resolver
	cache    *Cache
	opts     Options
}

// NewEngine builds an engine over the given rule store and caster registry.
func NewEngine(store *rules.Store, casters *CasterRegistry, opts Options) *Engine {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Engine{
		resolver: NewResolver(store, casters),
		cache:    NewCache(),
		opts:     opts,
	}
}

// Invalidate drops the cached routine for a pair. Wired to the rule store's
// OnChange hook so configuration and cache stay mutually consistent.
func (e *Engine) Invalidate(p rules.Pair) { e.cache.Invalidate(p) }

// Reset drops every cached routine, used when a registered caster may
// change strategy selection for unknown pairs.
func (e *Engine) Reset() { e.cache.Reset() }

// CachedRoutines reports the number of cached routines.
func (e *Engine) CachedRoutines() int { return e.cache.Len() }

// Routine returns the cached or freshly planned routine for a struct pair.
func (e *Engine) Routine(p rules.Pair) *Routine {
	return e.cache.GetOrBuild(p, func() *Routine { return e.resolver.Plan(p) })
}

// Convert maps src into a newly built value of type dst through the full
// plan-or-cache pipeline. An invalid (zero) reflect.Value result with a nil
// error means the target keeps its default value.
func (e *Engine) Convert(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Value{}, nil
	}

	ctx := &mapCtx{visited: make(map[uintptr]struct{})}
	strategy, _ := e.resolver.selectStrategy(src.Type(), dst)

	return e.apply(ctx, strategy, src, dst, "")
}

// mapCtx carries the per-top-level-call recursion state: a visited set of
// source reference identities and the current depth.
type mapCtx struct {
	visited map[uintptr]struct{}
	depth   int
}

// enter registers the reference identity of v, failing on a revisit.
// Sharing the same object across siblings is legal; only paths that revisit
// an ancestor are cycles, so the registration is undone by the release func.
func (ctx *mapCtx) enter(v reflect.Value) (func(), error) {
	var id uintptr

	switch v.Kind() {
	default:
		return func() {}, nil
	case reflect.Pointer, reflect.Map:
		if v.IsNil() {
			return func() {}, nil
		}

		id = v.Pointer()
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return func() {}, nil
		}

		id = v.Pointer()
	}

	if _, seen := ctx.visited[id]; seen {
		return nil, ErrCyclicGraph
	}

	ctx.visited[id] = struct{}{}

	return func() { delete(ctx.visited, id) }, nil
}

func (e *Engine) apply(ctx *mapCtx, strategy Strategy, src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	if ctx.depth >= e.opts.MaxDepth {
		return reflect.Value{}, ErrDepthExceeded
	}

	ctx.depth++
	defer func() { ctx.depth-- }()

	switch strategy {
	default:
		return reflect.Value{}, nil
	case StrategyDirectAssign:
		return e.applyDirect(src, dst)
	case StrategyDynamic:
		return e.applyDynamic(ctx, src, dst, field)
	case StrategyCast:
		return e.applyCast(src, dst, field)
	case StrategyEnumCoerce:
		return e.applyEnum(src, dst, field)
	case StrategyCoerce:
		return e.applyCoerce(src, dst, field)
	case StrategySliceMap:
		return e.applySlice(ctx, src, dst, field)
	case StrategyMapCopy:
		return e.applyMap(ctx, src, dst, field)
	case StrategyNestedCast:
		return e.applyNested(ctx, src, dst, field)
	}
}

// applyRoutine constructs a new target instance and applies each planned
// assignment in target-field order.
func (e *Engine) applyRoutine(ctx *mapCtx, rt *Routine, src reflect.Value) (reflect.Value, error) {
	out := reflect.New(rt.Pair.Dst).Elem()

	for _, st := range rt.Steps {
		dv, err := e.apply(ctx, st.Strategy, src.Field(st.SourceIndex), out.Field(st.TargetIndex).Type(), st.TargetField)
		if err != nil {
			return reflect.Value{}, err
		}

		if dv.IsValid() {
			out.Field(st.TargetIndex).Set(dv)
		}
	}

	return out, nil
}

// applyDirect assigns the source as-is. A nil source carries through when
// the shapes match; otherwise pointer shapes are bridged with nil mapping
// to the target default.
func (e *Engine) applyDirect(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if src.Type().AssignableTo(dst) {
		return src, nil
	}

	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	if dst.Kind() == reflect.Pointer {
		if base.Type().AssignableTo(dst.Elem()) {
			return wrapTarget(base, dst), nil
		}

		return reflect.Value{}, nil
	}

	if base.Type().AssignableTo(dst) {
		return base, nil
	}

	return reflect.Value{}, nil
}

// applyDynamic re-dispatches on the runtime type held by an interface source.
func (e *Engine) applyDynamic(ctx *mapCtx, src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	base, ok := derefSource(src)
	if !ok || base.Kind() != reflect.Interface || base.IsNil() {
		return reflect.Value{}, nil
	}

	elem := base.Elem()
	strategy, _ := e.resolver.selectStrategy(elem.Type(), dst)

	return e.apply(ctx, strategy, elem, dst, field)
}

func (e *Engine) applyCast(src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	caster, ok := e.lookupCaster(src.Type(), dst)
	if !ok {
		return reflect.Value{}, nil
	}

	arg := src

	if arg.Type() != caster.Src {
		switch {
		default:
			return reflect.Value{}, nil
		case arg.Kind() == reflect.Pointer && arg.Type().Elem() == caster.Src:
			if arg.IsNil() {
				return reflect.Value{}, nil
			}

			arg = arg.Elem()
		case caster.Src.Kind() == reflect.Pointer && caster.Src.Elem() == arg.Type():
			p := reflect.New(arg.Type())
			p.Elem().Set(arg)
			arg = p
		}
	}

	out, ok, err := caster.Call(arg)
	if err != nil || !ok {
		return e.conversionFailed(src.Type(), dst, field, err)
	}

	switch {
	case out.Type().AssignableTo(dst):
		return out, nil
	case dst.Kind() == reflect.Pointer && out.Type().AssignableTo(dst.Elem()):
		return wrapTarget(out, dst), nil
	case out.Kind() == reflect.Pointer && out.Type().Elem().AssignableTo(dst):
		if out.IsNil() {
			return reflect.Value{}, nil
		}

		return out.Elem(), nil
	default:
		return reflect.Value{}, nil
	}
}

func (e *Engine) lookupCaster(srcType, dstType reflect.Type) (Caster, bool) {
	if c, ok := e.resolver.casters.Lookup(rules.PairOf(srcType, dstType)); ok {
		return c, true
	}

	_, srcBase := ptrDepthAndBase(srcType)
	_, dstBase := ptrDepthAndBase(dstType)

	return e.resolver.casters.Lookup(rules.PairOf(srcBase, dstBase))
}

// applyEnum converts between defined integer types via the underlying
// ordinal. A target carrying an IsValid() bool method vetoes unknown
// ordinals; without it every representable ordinal is accepted.
func (e *Engine) applyEnum(src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	dstBase := dst
	if dstBase.Kind() == reflect.Pointer {
		dstBase = dstBase.Elem()
	}

	ordinal, ok := ordinalOf(base)
	if !ok {
		return e.conversionFailed(src.Type(), dst, field, nil)
	}

	out := reflect.New(dstBase).Elem()

	switch {
	default:
		return e.conversionFailed(src.Type(), dst, field, nil)
	case out.CanInt():
		if out.OverflowInt(ordinal) {
			return e.conversionFailed(src.Type(), dst, field, nil)
		}

		out.SetInt(ordinal)
	case out.CanUint():
		if ordinal < 0 || out.OverflowUint(uint64(ordinal)) {
			return e.conversionFailed(src.Type(), dst, field, nil)
		}

		out.SetUint(uint64(ordinal))
	}

	if v, ok := out.Interface().(interface{ IsValid() bool }); ok && !v.IsValid() {
		return e.conversionFailed(src.Type(), dst, field, nil)
	}

	return wrapTarget(out, dst), nil
}

func ordinalOf(v reflect.Value) (int64, bool) {
	switch {
	default:
		return 0, false
	case v.CanInt():
		return v.Int(), true
	case v.CanUint():
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}

		return int64(u), true
	}
}

func (e *Engine) applyCoerce(src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	dstBase := dst
	if dstBase.Kind() == reflect.Pointer {
		dstBase = dstBase.Elem()
	}

	out, ok := primitive.Coerce(base, dstBase, e.opts.Categories)
	if !ok {
		return e.conversionFailed(src.Type(), dst, field, nil)
	}

	return wrapTarget(out, dst), nil
}

// applySlice maps a source sequence into a freshly allocated target
// sequence, preserving element order. A nil source slice keeps the target
// default; an empty one yields an empty (non-nil) target slice.
func (e *Engine) applySlice(ctx *mapCtx, src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	if base.Kind() == reflect.Slice && base.IsNil() {
		return reflect.Value{}, nil
	}

	release, err := ctx.enter(base)
	if err != nil {
		return reflect.Value{}, err
	}
	defer release()

	dstBase := dst
	if dstBase.Kind() == reflect.Pointer {
		dstBase = dstBase.Elem()
	}

	n := base.Len()

	var out reflect.Value

	switch dstBase.Kind() {
	default:
		return reflect.Value{}, nil
	case reflect.Slice:
		out = reflect.MakeSlice(dstBase, n, n)
	case reflect.Array:
		out = reflect.New(dstBase).Elem()
		if n > dstBase.Len() {
			n = dstBase.Len()
		}
	}

	elemStrategy, _ := e.resolver.selectStrategy(base.Type().Elem(), dstBase.Elem())

	for i := 0; i < n; i++ {
		ev, err := e.apply(ctx, elemStrategy, base.Index(i), dstBase.Elem(), field)
		if err != nil {
			return reflect.Value{}, err
		}

		if ev.IsValid() {
			out.Index(i).Set(ev)
		}
	}

	return wrapTarget(out, dst), nil
}

// applyMap copies a source map into a freshly allocated target map,
// converting keys and values. Entries whose key cannot be converted are
// dropped; values that cannot be converted become the value default.
func (e *Engine) applyMap(ctx *mapCtx, src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	if base.Kind() != reflect.Map || base.IsNil() {
		return reflect.Value{}, nil
	}

	release, err := ctx.enter(base)
	if err != nil {
		return reflect.Value{}, err
	}
	defer release()

	dstBase := dst
	if dstBase.Kind() == reflect.Pointer {
		dstBase = dstBase.Elem()
	}

	if dstBase.Kind() != reflect.Map {
		return reflect.Value{}, nil
	}

	keyStrategy, _ := e.resolver.selectStrategy(base.Type().Key(), dstBase.Key())
	valStrategy, _ := e.resolver.selectStrategy(base.Type().Elem(), dstBase.Elem())

	out := reflect.MakeMapWithSize(dstBase, base.Len())

	iter := base.MapRange()
	for iter.Next() {
		kv, err := e.apply(ctx, keyStrategy, iter.Key(), dstBase.Key(), field)
		if err != nil {
			return reflect.Value{}, err
		}

		if !kv.IsValid() {
			continue
		}

		vv, err := e.apply(ctx, valStrategy, iter.Value(), dstBase.Elem(), field)
		if err != nil {
			return reflect.Value{}, err
		}

		if !vv.IsValid() {
			vv = reflect.Zero(dstBase.Elem())
		}

		out.SetMapIndex(kv, vv)
	}

	return wrapTarget(out, dst), nil
}

// applyNested recursively maps a nested struct through the plan-or-cache
// pipeline for its own type pair.
func (e *Engine) applyNested(ctx *mapCtx, src reflect.Value, dst reflect.Type, field string) (reflect.Value, error) {
	release, err := ctx.enter(src)
	if err != nil {
		return reflect.Value{}, err
	}
	defer release()

	base, ok := derefSource(src)
	if !ok {
		return reflect.Value{}, nil
	}

	dstBase := dst
	if dstBase.Kind() == reflect.Pointer {
		dstBase = dstBase.Elem()
	}

	if base.Kind() != reflect.Struct || dstBase.Kind() != reflect.Struct {
		return reflect.Value{}, nil
	}

	rt := e.Routine(rules.PairOf(base.Type(), dstBase))

	out, err := e.applyRoutine(ctx, rt, base)
	if err != nil {
		return reflect.Value{}, err
	}

	return wrapTarget(out, dst), nil
}

// conversionFailed implements the lenient/strict split: keep the default or
// surface a *CoercionError.
func (e *Engine) conversionFailed(srcType, dstType reflect.Type, field string, cause error) (reflect.Value, error) {
	if !e.opts.Strict {
		return reflect.Value{}, nil
	}

	return reflect.Value{}, &CoercionError{
		Field:  field,
		Source: srcType,
		Target: dstType,
		Cause:  cause,
	}
}

// derefSource unwraps one source pointer level; ok reports presence.
func derefSource(src reflect.Value) (reflect.Value, bool) {
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return reflect.Value{}, false
		}

		return src.Elem(), true
	}

	return src, true
}

// wrapTarget adapts a built base value to the target's pointer shape.
func wrapTarget(v reflect.Value, dst reflect.Type) reflect.Value {
	if dst.Kind() != reflect.Pointer {
		return v
	}

	p := reflect.New(dst.Elem())
	p.Elem().Set(v)

	return p
}
