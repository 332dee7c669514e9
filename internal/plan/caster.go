package plan

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"automapper/internal/rules"
	"automapper/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

// Caster is a user-supplied conversion function for one value-type pair.
// When registered, it takes precedence over every derived strategy.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster if it is
// a valid caster function.
//
// Supported signatures:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: utils.Second(path.Split(alias)),
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

var errType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	return t.Implements(errType)
}

// Call invokes the caster with src, which must be of the caster's source
// type. It returns the converted value, whether a value was produced, and
// the caster's error if the signature carries one.
func (c Caster) Call(src reflect.Value) (reflect.Value, bool, error) {
	outs := c.fn.Call([]reflect.Value{src})

	out := outs[0]
	ok := true

	var err error

	next := 1
	if c.HasBool {
		ok = outs[next].Bool()
		next++
	}

	if c.HasErr && !outs[next].IsNil() {
		err, _ = outs[next].Interface().(error)
	}

	return out, ok, err
}

// CasterRegistry holds the registered custom casters, keyed by the
// (source, target) value-type pair of their signature.
type CasterRegistry struct {
	mu      sync.RWMutex
	casters map[rules.Pair]Caster
}

// NewCasterRegistry creates an empty registry.
func NewCasterRegistry() *CasterRegistry {
	return &CasterRegistry{casters: make(map[rules.Pair]Caster)}
}

// Add registers a caster for its signature's type pair, replacing any
// previous caster for the same pair.
func (r *CasterRegistry) Add(c Caster) {
	r.mu.Lock()
	r.casters[rules.PairOf(c.Src, c.Dst)] = c
	r.mu.Unlock()
}

// Lookup returns the caster registered for the pair, if any.
func (r *CasterRegistry) Lookup(p rules.Pair) (Caster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.casters[p]

	return c, ok
}
