package module

import (
	"fmt"
	"reflect"
)

// PortsOf finds T in the bundle returned by m.Ports
// the bundle itself may be T, or T may sit in one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	bundle := m.Ports()
	if t, ok := bundle.(T); ok {
		return t, true
	}

	v := reflect.Indirect(reflect.ValueOf(bundle))
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for _, f := range reflect.VisibleFields(v.Type()) {
		if !f.IsExported() || len(f.Index) != 1 {
			continue
		}
		if t, ok := v.Field(f.Index[0]).Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s exports no %s", m.Name(), reflect.TypeFor[T]()))
	}
	return t
}
