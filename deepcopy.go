package depscope

import "reflect"

// Cloner lets a bound value control its own duplication when a deep scope
// copies it.
type Cloner interface {
	CloneValue() any
}

// deepCopyValue duplicates a bound value for a deep scope. A value
// implementing Cloner is asked to copy itself; otherwise maps, slices,
// arrays, pointers, and the exported fields of structs are copied
// recursively. Channels, funcs, and unexported struct fields stay shared
// with the original.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	if c, ok := v.(Cloner); ok {
		return c.CloneValue()
	}
	return deepCopyReflect(reflect.ValueOf(v)).Interface()
}

func deepCopyReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopyReflect(v.Elem()))
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopyReflect(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for it := v.MapRange(); it.Next(); {
			out.SetMapIndex(it.Key(), deepCopyReflect(it.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopyReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopyReflect(v.Index(i)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		// Copy the whole struct first so unexported fields carry over,
		// then replace each settable field with its deep copy.
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := out.Field(i)
			if field.CanSet() {
				field.Set(deepCopyReflect(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}
