package debugui

import (
	"fmt"
	"reflect"
	"sync"
)

// FieldInfo describes one exported struct field shown by the inspector.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
}

// Editable reports whether the inspector offers an input widget for the
// field rather than a read-only label.
func (f FieldInfo) Editable() bool {
	switch f.Type.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ReflectionCache memoizes the exported fields of struct types.
type ReflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{fields: make(map[reflect.Type][]FieldInfo)}
}

// Fields returns the exported fields of t. Non-struct types have none.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fields[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if cached, ok := rc.fields[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Pointer
			if isPointer {
				fieldType = fieldType.Elem()
			}
			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
			})
		}
	}
	rc.fields[t] = fields
	return fields
}

var reflectionCache = NewReflectionCache()

// setField stores value into dst, converting between numeric kinds. Values
// that overflow an integer field or go negative on an unsigned one are
// rejected.
func setField(dst reflect.Value, value any) error {
	if !dst.CanSet() {
		return fmt.Errorf("debugui: field of type %s is not settable", dst.Type())
	}

	src := reflect.ValueOf(value)
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			n = int64(src.Uint())
		case src.CanFloat():
			n = int64(src.Float())
		default:
			return fmt.Errorf("debugui: cannot set %s from %T", dst.Type(), value)
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("debugui: %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			u := src.Uint()
			if dst.OverflowUint(u) {
				return fmt.Errorf("debugui: %d overflows %s", u, dst.Type())
			}
			dst.SetUint(u)
			return nil
		default:
			return fmt.Errorf("debugui: cannot set %s from %T", dst.Type(), value)
		}
		if n < 0 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("debugui: %d out of range for %s", n, dst.Type())
		}
		dst.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		switch {
		case src.CanFloat():
			dst.SetFloat(src.Float())
		case src.CanInt():
			dst.SetFloat(float64(src.Int()))
		default:
			return fmt.Errorf("debugui: cannot set %s from %T", dst.Type(), value)
		}

	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("debugui: cannot set %s from %T", dst.Type(), value)
		}
		dst.SetBool(b)

	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("debugui: cannot set %s from %T", dst.Type(), value)
		}
		dst.SetString(s)

	default:
		return fmt.Errorf("debugui: unsupported field kind %s", dst.Kind())
	}
	return nil
}

// summary is the read-only label for values without an input widget.
func summary(v reflect.Value) string {
	if !v.IsValid() {
		return "<invalid>"
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return "nil"
		}
	case reflect.Slice:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", v.Len())
	case reflect.Func:
		if v.IsNil() {
			return "nil"
		}
		return "func"
	case reflect.Chan:
		return fmt.Sprintf("chan[%d/%d]", v.Len(), v.Cap())
	}
	if v.CanInterface() {
		return fmt.Sprintf("%v", v.Interface())
	}
	return v.Type().String()
}
