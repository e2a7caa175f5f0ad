package reflectx

import "reflect"

// IsNil reports whether v is nil, including a typed nil pointer, map,
// slice, function or channel hidden behind a non-nil interface value.
// Non-nilable kinds are never nil.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	val := reflect.ValueOf(v)

	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return val.IsNil()
	}

	return false
}
