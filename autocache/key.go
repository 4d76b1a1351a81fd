package autocache

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrUnhashableArgument is returned when an argument can neither be compared
// nor rendered through fmt.Stringer.
var ErrUnhashableArgument = errors.New("autocache: unhashable argument")

// Args is the argument list of one call.
// Positional order matters; Keyword order never does.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Positional builds Args from positional values only.
func Positional(vals ...any) Args {
	return Args{Positional: vals}
}

// With returns a copy of a with the keyword argument name set to value.
func (a Args) With(name string, value any) Args {
	kw := make(map[string]any, len(a.Keyword)+1)
	for k, v := range a.Keyword {
		kw[k] = v
	}
	kw[name] = value
	return Args{Positional: a.Positional, Keyword: kw}
}

// CallKey identifies a call by its canonical argument encoding.
// CallKeys are comparable and can be used as map keys.
type CallKey struct {
	canonical string
}

// String returns the canonical encoding of the key.
func (k CallKey) String() string {
	return k.canonical
}

// Hash returns a 64-bit fingerprint of the key.
func (k CallKey) Hash() uint64 {
	return xxhash.Sum64String(k.canonical)
}

// BuildKey derives the CallKey of args.
//
// Comparable values are encoded with their dynamic type, so int(1) and
// float64(1) are different keys. Two comparable values share a key when they
// are ==: pointers and channels by identity, -0 and 0 alike. Values that are not comparable fall back to
// their String method when they implement fmt.Stringer; anything else fails
// with ErrUnhashableArgument.
func BuildKey(args Args) (CallKey, error) {
	var b strings.Builder

	b.WriteString("p")
	b.WriteString(strconv.Itoa(len(args.Positional)))
	for i, v := range args.Positional {
		component, err := keyComponent(v)
		if err != nil {
			return CallKey{}, fmt.Errorf("%w: positional %d (%T)", ErrUnhashableArgument, i, v)
		}
		writeField(&b, component)
	}

	names := make([]string, 0, len(args.Keyword))
	for name := range args.Keyword {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("k")
	b.WriteString(strconv.Itoa(len(names)))
	for _, name := range names {
		v := args.Keyword[name]
		component, err := keyComponent(v)
		if err != nil {
			return CallKey{}, fmt.Errorf("%w: keyword %q (%T)", ErrUnhashableArgument, name, v)
		}
		writeField(&b, name)
		writeField(&b, component)
	}

	return CallKey{canonical: b.String()}, nil
}

// writeField appends s length-prefixed so adjacent fields never run together.
func writeField(b *strings.Builder, s string) {
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func keyComponent(v any) (string, error) {
	if v == nil {
		return "nil", nil
	}
	rv := reflect.ValueOf(v)
	if rv.Comparable() {
		var b strings.Builder
		b.WriteString(typeName(rv.Type()))
		b.WriteByte('=')
		encodeValue(&b, rv)
		return b.String(), nil
	}
	if stringer, ok := v.(fmt.Stringer); ok {
		return typeName(rv.Type()) + "~" + stringer.String(), nil
	}
	return "", ErrUnhashableArgument
}

// typeName qualifies named types with their import path so that same-named
// types from different packages never share a key.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeName(t.Elem())
	case reflect.Chan:
		return t.ChanDir().String() + " " + typeName(t.Elem())
	}
	return t.String()
}

// encodeValue writes v so that two values get the same encoding exactly when
// they are == to each other. v must be comparable.
func encodeValue(b *strings.Builder, v reflect.Value) {
	switch v.Kind() {
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString(strconv.FormatFloat(positiveZero(v.Float()), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		b.WriteString(strconv.FormatComplex(complex(positiveZero(real(c)), positiveZero(imag(c))), 'g', -1, 128))
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		// identity, as with ==
		b.WriteByte('@')
		b.WriteString(strconv.FormatUint(uint64(v.Pointer()), 16))
	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		elem := v.Elem()
		var inner strings.Builder
		inner.WriteString(typeName(elem.Type()))
		inner.WriteByte('=')
		encodeValue(&inner, elem)
		writeField(b, inner.String())
	case reflect.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			writeField(b, encodeString(v.Index(i)))
		}
		b.WriteByte(']')
	case reflect.Struct:
		b.WriteByte('{')
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).Name == "_" {
				continue
			}
			writeField(b, encodeString(v.Field(i)))
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.Type().String())
	}
}

func encodeString(v reflect.Value) string {
	var b strings.Builder
	encodeValue(&b, v)
	return b.String()
}

// positiveZero folds -0 into 0, which compare equal.
func positiveZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
