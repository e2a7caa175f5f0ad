package reflectx

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// BoundMethod resolves the method called name on target and converts it
// to the function type T, which may be a named or unnamed type with the
// method's signature. The returned function is bound to target, so
// invoking it behaves exactly like calling the method on target.
//
// Parameters:
//   - target: The value whose method set is searched.
//   - name: The exported method name to resolve.
//
// Returns:
//   - T: The bound method as a function value.
//   - error: Non-nil when the method does not exist or its signature is not T's.
func BoundMethod[T any](target any, name string) (T, error) {
	var zero T
	if target == nil {
		return zero, fmt.Errorf("cannot bind %q on a nil target", name)
	}
	method := reflect.ValueOf(target).MethodByName(name)
	if !method.IsValid() {
		return zero, fmt.Errorf("%s has no method %q", TypeName(target), name)
	}
	want := reflect.TypeFor[T]()
	if !method.Type().ConvertibleTo(want) {
		return zero, fmt.Errorf("method %q on %s is %s, want %s",
			name, TypeName(target), method.Type(), want)
	}
	return method.Convert(want).Interface().(T), nil
}

// MethodName resolves the bare name of a method value: given s.OnScore
// it returns "OnScore". Anonymous functions yield their runtime name
// (funcN), non-functions and nil yield "".
func MethodName(fn any) string {
	if fn == nil {
		return ""
	}
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(val.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if lastDot := strings.LastIndex(name, "."); lastDot >= 0 {
		name = name[lastDot+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// TypeName returns the bare type name of v without package path or
// pointer markers. Anonymous types fall back to their full string form.
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
