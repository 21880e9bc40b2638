package props

import (
	"reflect"
)

// visit identifies a pair of containers currently being compared. Tracking
// pairs by identity lets two structurally identical cycles compare equal
// instead of recursing forever.
type visit struct {
	a, b uintptr
}

// DeepEqual reports whether two values are structurally equal. It compares
// lists element-wise and maps key-wise regardless of the concrete container
// types the parsers produced (e.g. []any vs []string, map[string]any vs
// map[any]any), treats numeric values of different widths as equal when they
// represent the same number, and tolerates cyclic structures.
func DeepEqual(a, b any) bool {
	return deepEqual(a, b, make(map[visit]struct{}))
}

func deepEqual(a, b any, seen map[visit]struct{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	av := indirect(reflect.ValueOf(a))
	bv := indirect(reflect.ValueOf(b))
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}

	if af, ok := asFloat(av); ok {
		bf, ok := asFloat(bv)
		return ok && af == bf
	}

	switch av.Kind() {
	case reflect.String:
		return bv.Kind() == reflect.String && av.String() == bv.String()
	case reflect.Bool:
		return bv.Kind() == reflect.Bool && av.Bool() == bv.Bool()
	case reflect.Slice, reflect.Array:
		return sliceEqual(av, bv, seen)
	case reflect.Map:
		return mapEqual(av, bv, seen)
	default:
		return reflect.DeepEqual(av.Interface(), bv.Interface())
	}
}

func sliceEqual(av, bv reflect.Value, seen map[visit]struct{}) bool {
	if bv.Kind() != reflect.Slice && bv.Kind() != reflect.Array {
		return false
	}
	if av.Len() != bv.Len() {
		return false
	}

	if av.Kind() == reflect.Slice && bv.Kind() == reflect.Slice && av.Len() > 0 {
		pair := visit{av.Pointer(), bv.Pointer()}
		if _, ok := seen[pair]; ok {
			return true
		}
		seen[pair] = struct{}{}
		defer delete(seen, pair)
	}

	for i := 0; i < av.Len(); i++ {
		if !deepEqual(av.Index(i).Interface(), bv.Index(i).Interface(), seen) {
			return false
		}
	}
	return true
}

func mapEqual(av, bv reflect.Value, seen map[visit]struct{}) bool {
	if bv.Kind() != reflect.Map {
		return false
	}
	if av.Len() != bv.Len() {
		return false
	}

	if av.Len() > 0 {
		pair := visit{av.Pointer(), bv.Pointer()}
		if _, ok := seen[pair]; ok {
			return true
		}
		seen[pair] = struct{}{}
		defer delete(seen, pair)
	}

	bKeys := make(map[string]reflect.Value, bv.Len())
	iter := bv.MapRange()
	for iter.Next() {
		bKeys[keyString(iter.Key())] = iter.Value()
	}

	iter = av.MapRange()
	for iter.Next() {
		other, ok := bKeys[keyString(iter.Key())]
		if !ok {
			return false
		}
		if !deepEqual(iter.Value().Interface(), other.Interface(), seen) {
			return false
		}
	}
	return true
}

// indirect unwraps interfaces and pointers down to the underlying value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func keyString(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return stringify(v.Interface())
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
