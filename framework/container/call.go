package container

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// CallMethod resolves name with Get and calls the exported method of that
// name on the result.
//
//	n, err := c.CallMethod("counter", "Incr", 2)
//
// args are assigned, or converted, to the method's parameter types. The
// method's results map to the return values as follows: no results give nil;
// a trailing error result is returned as the error; otherwise the first
// result is returned.
func (c *Container) CallMethod(name, method string, args ...any) (any, error) {
	const op = "call"

	v, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &Error{Op: op, Name: name, Err: ErrNoSuchMethod, Detail: method + " on nil"}
	}

	m := reflect.ValueOf(v).MethodByName(method)
	if !m.IsValid() {
		return nil, &Error{Op: op, Name: name, Err: ErrNoSuchMethod,
			Detail: fmt.Sprintf("%T has no method %s", v, method)}
	}

	in, err := methodArgs(m.Type(), args)
	if err != nil {
		return nil, invalid(op, name, fmt.Sprintf("%s: %v", method, err))
	}
	return methodResult(m.Type(), m.Call(in))
}

func methodArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	n := mt.NumIn()
	switch {
	case mt.IsVariadic() && len(args) < n-1:
		return nil, fmt.Errorf("want at least %d arguments, got %d", n-1, len(args))
	case !mt.IsVariadic() && len(args) != n:
		return nil, fmt.Errorf("want %d arguments, got %d", n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := paramType(mt, i)
		v, err := convertArg(arg, want)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(mt reflect.Type, i int) reflect.Type {
	last := mt.NumIn() - 1
	if mt.IsVariadic() && i >= last {
		return mt.In(last).Elem()
	}
	return mt.In(i)
}

func convertArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", want)
	}

	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(want):
		return v, nil
	case want.Kind() == reflect.String && v.Kind() != reflect.String:
		// int → string conversion yields a rune, never what the caller meant
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), want)
	case v.Kind() == reflect.Slice && v.Len() < arrayLen(want):
		// slice → array (or array pointer) panics when the slice is shorter
		return reflect.Value{}, fmt.Errorf("cannot use %s of length %d as %s", v.Type(), v.Len(), want)
	case v.Type().ConvertibleTo(want):
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), want)
}

// arrayLen is the length of an array or array-pointer type, 0 otherwise.
func arrayLen(t reflect.Type) int {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Array {
		return 0
	}
	return t.Len()
}

func methodResult(mt reflect.Type, out []reflect.Value) (any, error) {
	n := len(out)
	if n == 0 {
		return nil, nil
	}
	if mt.Out(n-1) == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		if n == 1 {
			return nil, nil
		}
	}
	return out[0].Interface(), nil
}
