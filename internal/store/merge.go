package store

import (
	"maps"
	"reflect"
	"slices"
)

// nextValue computes the value Set commits for a resolved descriptor.
func nextValue[T any](current T, u Update[T], replace bool) T {
	switch u.kind {
	case kindValue:
		if replace {
			return u.value
		}
		return mergeValue(current, u.value)
	case kindPatch:
		base := current
		if replace {
			var zero T
			base = zero
		}
		return applyFields(base, u.fields)
	}
	panic(&UpdateError{Kind: u.kind.String(), Err: ErrInvalidUpdate})
}

// mergeValue overlays every field of next onto a shallow copy of current.
func mergeValue[T any](current, next T) T {
	out := overlay(reflect.ValueOf(&current).Elem(), reflect.ValueOf(&next).Elem())
	var result T
	reflect.ValueOf(&result).Elem().Set(out)
	return result
}

func overlay(current, next reflect.Value) reflect.Value {
	typ := next.Type()
	if typ.Kind() == reflect.Interface {
		if next.IsNil() {
			return next
		}
		inner := overlay(unwrapInterface(current), next.Elem())
		out := reflect.New(typ).Elem()
		out.Set(inner)
		return out
	}

	switch typ.Kind() {
	case reflect.Map:
		sameMap := current.IsValid() && current.Type() == typ && !current.IsNil()
		if next.IsNil() && !sameMap {
			return next
		}
		size := next.Len()
		if sameMap {
			size += current.Len()
		}
		out := reflect.MakeMapWithSize(typ, size)
		if sameMap {
			iter := current.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		iter := next.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out
	case reflect.Pointer:
		if typ.Elem().Kind() != reflect.Struct {
			return next
		}
		src := next
		if src.IsNil() {
			// A nil pointer has no fields to overlay; keep a copy of current.
			if !current.IsValid() || current.Type() != typ || current.IsNil() {
				return next
			}
			src = current
		}
		out := reflect.New(typ.Elem())
		out.Elem().Set(src.Elem())
		return out
	}
	// Structs carry every field, so the overlay is the value itself.
	return next
}

// applyFields overlays fields onto a shallow copy of base.
func applyFields[T any](base T, fields Fields) T {
	out := patchValue(reflect.ValueOf(&base).Elem(), fields)
	var result T
	reflect.ValueOf(&result).Elem().Set(out)
	return result
}

func patchValue(current reflect.Value, fields Fields) reflect.Value {
	typ := current.Type()
	switch typ.Kind() {
	case reflect.Interface:
		inner := unwrapInterface(current)
		var patched reflect.Value
		if inner.IsValid() {
			patched = patchValue(inner, fields)
		} else {
			m := make(map[string]any, len(fields))
			maps.Copy(m, fields)
			patched = reflect.ValueOf(m)
		}
		if !patched.Type().AssignableTo(typ) {
			panic(&UpdateError{Kind: kindPatch.String(), Err: ErrNotComposite})
		}
		out := reflect.New(typ).Elem()
		out.Set(patched)
		return out
	case reflect.Struct:
		out := reflect.New(typ).Elem()
		out.Set(current)
		setFields(out, fields)
		return out
	case reflect.Pointer:
		if typ.Elem().Kind() != reflect.Struct {
			break
		}
		out := reflect.New(typ.Elem())
		if !current.IsNil() {
			out.Elem().Set(current.Elem())
		}
		setFields(out.Elem(), fields)
		return out
	case reflect.Map:
		if typ.Key().Kind() != reflect.String {
			break
		}
		out := reflect.MakeMapWithSize(typ, current.Len()+len(fields))
		if !current.IsNil() {
			iter := current.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		for _, name := range slices.Sorted(maps.Keys(fields)) {
			elem := reflect.New(typ.Elem()).Elem()
			assign(elem, name, fields[name])
			out.SetMapIndex(reflect.ValueOf(name).Convert(typ.Key()), elem)
		}
		return out
	}
	panic(&UpdateError{Kind: kindPatch.String(), Err: ErrNotComposite})
}

func setFields(dst reflect.Value, fields Fields) {
	typ := dst.Type()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		sf, ok := typ.FieldByName(name)
		if !ok || !sf.IsExported() || promotedThroughPointer(typ, sf.Index) {
			panic(&UpdateError{Kind: kindPatch.String(), Field: name, Err: ErrUnknownField})
		}
		assign(dst.FieldByIndex(sf.Index), name, fields[name])
	}
}

// promotedThroughPointer reports whether the field path crosses an embedded
// pointer; writing there would mutate memory shared with the current value.
func promotedThroughPointer(typ reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		ft := typ.Field(i).Type
		if ft.Kind() == reflect.Pointer {
			return true
		}
		typ = ft
	}
	return false
}

func assign(dst reflect.Value, name string, v any) {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return
	}
	if converted, ok := convertNumber(src, dst.Type()); ok {
		dst.Set(converted)
		return
	}
	panic(&UpdateError{Kind: kindPatch.String(), Field: name, Err: ErrFieldType})
}

// convertNumber converts between numeric kinds when the value fits, so that
// untyped constants such as Fields{"Count": 6} reach an int64 field.
func convertNumber(src reflect.Value, to reflect.Type) (reflect.Value, bool) {
	if !isNumber(src.Kind()) || !isNumber(to.Kind()) || !src.CanConvert(to) {
		return reflect.Value{}, false
	}
	probe := reflect.New(to).Elem()
	switch {
	case isInt(src.Kind()) && isInt(to.Kind()):
		if probe.OverflowInt(src.Int()) {
			return reflect.Value{}, false
		}
	case isUint(src.Kind()) && isUint(to.Kind()):
		if probe.OverflowUint(src.Uint()) {
			return reflect.Value{}, false
		}
	case isInt(src.Kind()) && isUint(to.Kind()):
		if src.Int() < 0 || probe.OverflowUint(uint64(src.Int())) {
			return reflect.Value{}, false
		}
	case isUint(src.Kind()) && isInt(to.Kind()):
		if src.Uint() > 1<<63-1 || probe.OverflowInt(int64(src.Uint())) {
			return reflect.Value{}, false
		}
	case isFloat(src.Kind()) && !isFloat(to.Kind()):
		return reflect.Value{}, false
	}
	return src.Convert(to), true
}

func isNumber(k reflect.Kind) bool { return isInt(k) || isUint(k) || isFloat(k) }

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
