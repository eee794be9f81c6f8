package depscope

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Binding names one dependency to resolve when a wired function is
// called. An empty Namespace means DefaultNamespace.
type Binding struct {
	Key       string
	Namespace string
	Lenient   bool
}

func (b Binding) injectOptions() []Option {
	var opts []Option
	if b.Namespace != "" {
		opts = append(opts, InNamespace(b.Namespace))
	}
	if b.Lenient {
		opts = append(opts, Lenient())
	}
	return opts
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// WireFunc wraps fn so that its trailing parameters are resolved from the
// registry on every call, inside whatever scope is active at call time.
//
// fn must be a function whose first parameter is a context.Context. The
// last len(bindings) parameters are injected; the parameters in between
// come from the args of the returned closure. A lenient binding that
// misses passes the parameter's zero value. If fn's final result is an
// error it is split off and returned as the closure's own error.
func (r *Registry) WireFunc(fn any, bindings ...Binding) (func(context.Context, ...any) ([]any, error), error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("depscope: WireFunc target must be a function, got %T", fn)
	}
	if fnType.NumIn() < 1+len(bindings) || fnType.In(0) != contextType {
		return nil, fmt.Errorf("depscope: wired function needs a leading context.Context and %d trailing injected parameters", len(bindings))
	}
	explicit := fnType.NumIn() - 1 - len(bindings)
	returnsErr := fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == errorType

	call := func(ctx context.Context, args ...any) ([]any, error) {
		if len(args) != explicit {
			return nil, fmt.Errorf("depscope: wired function takes %d explicit arguments, got %d", explicit, len(args))
		}
		in := make([]reflect.Value, 0, fnType.NumIn())
		in = append(in, reflect.ValueOf(ctx))
		for i, arg := range args {
			paramType := fnType.In(1 + i)
			if arg == nil {
				in = append(in, reflect.Zero(paramType))
				continue
			}
			in = append(in, reflect.ValueOf(arg))
		}
		for i, b := range bindings {
			paramType := fnType.In(1 + explicit + i)
			value, err := r.Inject(ctx, b.Key, b.injectOptions()...)
			if err != nil {
				return nil, fmt.Errorf("resolving injected parameter %d: %w", 1+explicit+i, err)
			}
			if value == nil {
				in = append(in, reflect.Zero(paramType))
				continue
			}
			val := reflect.ValueOf(value)
			if !val.Type().AssignableTo(paramType) {
				return nil, fmt.Errorf("depscope: dependency %q is %T, not assignable to parameter type %s", b.Key, value, paramType)
			}
			in = append(in, val)
		}

		outVals := fnVal.Call(in)
		var callErr error
		if returnsErr {
			if e := outVals[len(outVals)-1].Interface(); e != nil {
				callErr = e.(error)
			}
			outVals = outVals[:len(outVals)-1]
		}
		results := make([]any, len(outVals))
		for i, out := range outVals {
			results[i] = out.Interface()
		}
		return results, callErr
	}
	return call, nil
}

// WireStruct fills the fields of target, a non-nil pointer to struct,
// tagged `inject:"key"` or `inject:"key,namespace"`. Appending ",lenient"
// leaves the field at its zero value on a lookup miss instead of failing.
// Untagged fields are left alone.
func (r *Registry) WireStruct(ctx context.Context, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("depscope: WireStruct target must be a non-nil pointer to struct, got %T", target)
	}
	elem := rv.Elem()
	elemType := elem.Type()
	for i := 0; i < elemType.NumField(); i++ {
		structField := elemType.Field(i)
		tag, ok := structField.Tag.Lookup("inject")
		if !ok || tag == "" || tag == "-" {
			continue
		}
		field := elem.Field(i)
		if !field.CanSet() {
			return fmt.Errorf("depscope: cannot inject into unexported field %s.%s", elemType.Name(), structField.Name)
		}
		b := parseInjectTag(tag)
		value, err := r.Inject(ctx, b.Key, b.injectOptions()...)
		if err != nil {
			return fmt.Errorf("wiring field %s.%s: %w", elemType.Name(), structField.Name, err)
		}
		if value == nil {
			continue
		}
		val := reflect.ValueOf(value)
		if !val.Type().AssignableTo(field.Type()) {
			return fmt.Errorf("depscope: dependency %q is %T, not assignable to field %s.%s", b.Key, value, elemType.Name(), structField.Name)
		}
		field.Set(val)
	}
	return nil
}

// parseInjectTag splits an inject tag of the form "key[,namespace][,lenient]".
func parseInjectTag(tag string) Binding {
	parts := strings.Split(tag, ",")
	b := Binding{Key: parts[0]}
	for _, part := range parts[1:] {
		if part == "lenient" {
			b.Lenient = true
			continue
		}
		if part != "" {
			b.Namespace = part
		}
	}
	return b
}
