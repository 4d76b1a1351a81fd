package helper

import (
	"fmt"
	"reflect"
)

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// Returns an error if the getter fails or the type assertion fails.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// GetTypedValueOf2 asserts the result of a comma-ok getter to T.
// A nil raw value is accepted as the zero value of T when T is an interface.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); !ok {
		return
	}
	if raw == nil {
		return res, nilable[T]()
	}
	res, ok = raw.(T)
	return
}

// nilable reports whether T is an interface type, the only kind whose zero
// value boxes to a nil any.
func nilable[T any]() bool {
	return reflect.TypeOf((*T)(nil)).Elem().Kind() == reflect.Interface
}
