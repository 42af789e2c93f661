// pkg/formatters/safe.go
package formatters

import (
	"errors"
	"fmt"
	"reflect"
)

// maxValueDepth bounds how deep SafeValue walks a value.
const maxValueDepth = 64

var (
	errCyclicValue  = errors.New("cyclic value")
	errValueTooDeep = errors.New("value nested too deeply")
)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// SafeValue returns v when it can be encoded without revisiting a pointer, map or
// slice already on the current path and within maxValueDepth levels. Otherwise it
// returns a placeholder string such as "<cyclic value: *app.node>".
func SafeValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return v
	}
	if err := checkValue(reflect.ValueOf(v), map[visitKey]struct{}{}, 0); err != nil {
		return fmt.Sprintf("<%s: %T>", err, v)
	}
	return v
}

// SafeMap returns a copy of m with every value passed through SafeValue. A nil m
// returns nil.
func SafeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = SafeValue(v)
	}
	return out
}

// SafeSlice returns a copy of s with every value passed through SafeValue. A nil
// s returns nil.
func SafeSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = SafeValue(v)
	}
	return out
}

func checkValue(v reflect.Value, path map[visitKey]struct{}, depth int) error {
	if depth > maxValueDepth {
		return errValueTooDeep
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := path[key]; ok {
			return errCyclicValue
		}
		path[key] = struct{}{}
		defer delete(path, key)
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return checkValue(v.Elem(), path, depth+1)
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkValue(iter.Value(), path, depth+1); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkValue(v.Index(i), path, depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := checkValue(v.Field(i), path, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
