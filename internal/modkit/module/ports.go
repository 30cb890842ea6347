package module

import "reflect"

// PortsOf finds a T in the bundle m.Ports returns. The bundle may be a T
// itself, or a struct (or pointer to one) with an exported field holding a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	bundle := m.Ports()
	if bundle == nil {
		return zero, false
	}
	if t, ok := bundle.(T); ok {
		return t, true
	}

	v := reflect.Indirect(reflect.ValueOf(bundle))
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if t, ok := v.Field(i).Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, where a missing port is a bug
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return t
}
