package container

import (
	"maps"
	"reflect"

	"github.com/spf13/cast"
)

// ContainerKey is the key under which the container is injected into every
// parameter bag.
const ContainerKey = "containerInstance"

// Params is the argument bag handed to a ParamConstructor.
type Params map[string]any

// Container returns the injected container, or nil if absent.
func (p Params) Container() *Container {
	c, _ := p[ContainerKey].(*Container)
	return c
}

// Get returns the raw value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns key converted to a string.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", notFound("param", key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalid("param", key, err.Error())
	}
	return s, nil
}

// Int returns key converted to an int.
func (p Params) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, notFound("param", key)
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, invalid("param", key, err.Error())
	}
	return i, nil
}

// Bool returns key converted to a bool.
func (p Params) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, notFound("param", key)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, invalid("param", key, err.Error())
	}
	return b, nil
}

// paramsFrom copies a string-keyed map into a fresh bag. ok is false when v
// is not such a map.
func paramsFrom(v any) (Params, bool) {
	switch m := v.(type) {
	case Params:
		return maps.Clone(m), true
	case map[string]any:
		return Params(maps.Clone(m)), true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	p := make(Params, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		p[iter.Key().String()] = iter.Value().Interface()
	}
	return p, true
}
