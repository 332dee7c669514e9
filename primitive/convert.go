package primitive

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"automapper/options"
	"automapper/utils"
)

// Coerce converts src into a value of type dst using the best-effort
// coercion rules of the categories selected in allowed. The boolean result
// reports success; on failure the returned value is invalid and the caller
// keeps the target's default value.
func Coerce(src reflect.Value, dst reflect.Type, allowed options.CategoryEnum) (reflect.Value, bool) {
	if !src.IsValid() || dst == nil {
		return reflect.Value{}, false
	}

	from := FromReflectType(src.Type())
	to := FromReflectType(dst)

	if from == 0 || to == 0 {
		return reflect.Value{}, false
	}

	if Categories(from, to)&allowed == options.CategoryNone {
		return reflect.Value{}, false
	}

	switch {
	default:
		return reflect.Value{}, false
	case from.IsNumber() && to.IsNumber():
		return coerceNumber(src, dst)
	case from.IsNumber() && to == KindString:
		return numberToString(src, dst)
	case from == KindString && to.IsNumber():
		return stringToNumber(src.String(), dst)
	case from.IsInteger() && to == KindBool:
		return intToBool(src, dst)
	case from == KindBool && to.IsInteger():
		return boolToInt(src.Bool(), dst)
	case from == KindString && to == KindBool:
		return stringToBool(src.String(), dst)
	case from == KindBool && to == KindString:
		return setString(strconv.FormatBool(src.Bool()), dst)
	case from == KindString && to == KindTime:
		return stringToTime(src.String())
	case from == KindTime && to == KindString:
		return setString(src.Interface().(time.Time).Format(time.RFC3339Nano), dst)
	case from.IsInteger() && to == KindTime:
		return intToTime(src)
	case from == KindTime && to.IsInteger():
		return coerceNumber(reflect.ValueOf(src.Interface().(time.Time).Unix()), dst)
	case from == KindString && to == KindDuration:
		return stringToDuration(src.String())
	case from == KindDuration && to == KindString:
		return setString(time.Duration(src.Int()).String(), dst)
	case from.IsInteger() && to == KindDuration:
		return coerceNumber(src, dst)
	case from == KindDuration && to.IsInteger():
		return coerceNumber(reflect.ValueOf(src.Int()), dst)
	case from.IsFloat() && to == KindDuration:
		return floatToDuration(src.Float())
	case from == KindDuration && to.IsFloat():
		return coerceNumber(reflect.ValueOf(time.Duration(src.Int()).Seconds()), dst)
	case from == KindEnumLike || to == KindEnumLike:
		return coerceEnumText(src, dst)
	}
}

// coerceNumber converts between integer and float representations with
// range checking; a value that does not fit the destination fails instead
// of wrapping around.
func coerceNumber(src reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	switch {
	default:
		return reflect.Value{}, false
	case isIntKind(dst.Kind()):
		v, ok := toInt64(src)
		if !ok || out.OverflowInt(v) {
			return reflect.Value{}, false
		}

		out.SetInt(v)
	case isUintKind(dst.Kind()):
		v, ok := toUint64(src)
		if !ok || out.OverflowUint(v) {
			return reflect.Value{}, false
		}

		out.SetUint(v)
	case dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64:
		v, ok := toFloat64(src)
		if !ok || out.OverflowFloat(v) {
			return reflect.Value{}, false
		}

		out.SetFloat(v)
	}

	return out, true
}

func toInt64(v reflect.Value) (int64, bool) {
	switch {
	default:
		return 0, false
	case isIntKind(v.Kind()):
		return v.Int(), true
	case isUintKind(v.Kind()):
		u := v.Uint()
		if !utils.IsInRange(0, u, uint64(math.MaxInt64)) {
			return 0, false
		}

		return int64(u), true
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}

		return int64(f), true
	}
}

func toUint64(v reflect.Value) (uint64, bool) {
	switch {
	default:
		return 0, false
	case isIntKind(v.Kind()):
		i := v.Int()
		if i < 0 {
			return 0, false
		}

		return uint64(i), true
	case isUintKind(v.Kind()):
		return v.Uint(), true
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}

		return uint64(f), true
	}
}

func toFloat64(v reflect.Value) (float64, bool) {
	switch {
	default:
		return 0, false
	case isIntKind(v.Kind()):
		return float64(v.Int()), true
	case isUintKind(v.Kind()):
		return float64(v.Uint()), true
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		return v.Float(), true
	}
}

func numberToString(src reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	switch {
	default:
		return reflect.Value{}, false
	case isIntKind(src.Kind()):
		return setString(strconv.FormatInt(src.Int(), 10), dst)
	case isUintKind(src.Kind()):
		return setString(strconv.FormatUint(src.Uint(), 10), dst)
	case src.Kind() == reflect.Float32:
		return setString(strconv.FormatFloat(src.Float(), 'g', -1, 32), dst)
	case src.Kind() == reflect.Float64:
		return setString(strconv.FormatFloat(src.Float(), 'g', -1, 64), dst)
	}
}

func stringToNumber(s string, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	switch {
	default:
		return reflect.Value{}, false
	case isIntKind(dst.Kind()):
		v, err := strconv.ParseInt(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		out.SetInt(v)
	case isUintKind(dst.Kind()):
		v, err := strconv.ParseUint(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		out.SetUint(v)
	case dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64:
		v, err := strconv.ParseFloat(s, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		out.SetFloat(v)
	}

	return out, true
}

// intToBool accepts only the canonical 0/1 representation.
func intToBool(src reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	var v int64

	switch {
	default:
		return reflect.Value{}, false
	case isIntKind(src.Kind()):
		v = src.Int()
	case isUintKind(src.Kind()):
		u := src.Uint()
		if u > 1 {
			return reflect.Value{}, false
		}

		v = int64(u)
	}

	if v != 0 && v != 1 {
		return reflect.Value{}, false
	}

	out := reflect.New(dst).Elem()
	out.SetBool(v == 1)

	return out, true
}

func boolToInt(b bool, dst reflect.Type) (reflect.Value, bool) {
	var v int64
	if b {
		v = 1
	}

	return coerceNumber(reflect.ValueOf(v), dst)
}

func stringToBool(s string, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()

	switch strings.ToLower(strings.TrimSpace(s)) {
	default:
		return reflect.Value{}, false
	case "true", "yes", "on", "1":
		out.SetBool(true)
	case "false", "no", "off", "0":
		out.SetBool(false)
	}

	return out, true
}

func setString(s string, dst reflect.Type) (reflect.Value, bool) {
	if dst.Kind() != reflect.String {
		return reflect.Value{}, false
	}

	out := reflect.New(dst).Elem()
	out.SetString(s)

	return out, true
}

func stringToTime(s string) (reflect.Value, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(t), true
}

func intToTime(src reflect.Value) (reflect.Value, bool) {
	sec, ok := toInt64(src)
	if !ok {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(time.Unix(sec, 0).UTC()), true
}

func stringToDuration(s string) (reflect.Value, bool) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(d), true
}

func floatToDuration(seconds float64) (reflect.Value, bool) {
	ns := seconds * float64(time.Second)
	if math.IsNaN(ns) || ns < math.MinInt64 || ns >= math.MaxInt64 {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(time.Duration(ns)), true
}

// coerceEnumText converts between enum-like defined types and strings using
// the textual protocols a Go enum commonly carries: encoding.TextMarshaler /
// encoding.TextUnmarshaler, fmt.Stringer, or a string underlying type.
func coerceEnumText(src reflect.Value, dst reflect.Type) (reflect.Value, bool) {
	// enum-like to enum-like with a shared underlying shape
	if FromReflectType(src.Type()) == KindEnumLike && FromReflectType(dst) == KindEnumLike {
		if src.Kind() == reflect.String && dst.Kind() == reflect.String {
			return src.Convert(dst), true
		}

		if isIntKind(src.Kind()) || isUintKind(src.Kind()) {
			return coerceNumber(src, dst)
		}

		return reflect.Value{}, false
	}

	if dst.Kind() == reflect.String && dst.PkgPath() == "" {
		s, ok := enumToString(src)
		if !ok {
			return reflect.Value{}, false
		}

		return setString(s, dst)
	}

	if src.Kind() == reflect.String && src.Type().PkgPath() == "" {
		return stringToEnum(src.String(), dst)
	}

	return reflect.Value{}, false
}

func enumToString(src reflect.Value) (string, bool) {
	if tm, ok := src.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return "", false
		}

		return string(b), true
	}

	if s, ok := src.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}

	if src.Kind() == reflect.String {
		return src.String(), true
	}

	return "", false
}

func stringToEnum(s string, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst)

	if tu, ok := out.Interface().(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, false
		}

		return out.Elem(), true
	}

	if dst.Kind() == reflect.String {
		return reflect.ValueOf(s).Convert(dst), true
	}

	return reflect.Value{}, false
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
}
