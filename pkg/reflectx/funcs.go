// Package reflectx provides function-value introspection helpers.
package reflectx

import (
	"reflect"
	"runtime"
	"strings"
)

// IsFunction reports whether fn is a non-nil function value.
func IsFunction(fn any) bool {
	if fn == nil {
		return false
	}
	return reflect.TypeOf(fn).Kind() == reflect.Func
}

// Key returns the identity of a function value. Two references to the same
// function yield the same key, so it can stand in for the == comparison Go
// does not define on funcs. Returns 0 for nil or non-function values.
func Key(fn any) uintptr {
	if !IsFunction(fn) {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

// Name returns the name of a function value as reported by the runtime,
// trimmed to its last path segment. Method values lose their -fm suffix.
// Returns "" for anything that is not a function.
func Name(fn any) string {
	if !IsFunction(fn) {
		return ""
	}
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return reflect.TypeOf(fn).String()
	}
	name := rf.Name()
	if lastDot := strings.LastIndex(name, "."); lastDot >= 0 {
		name = name[lastDot+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
