package sizing

import (
	"reflect"
)

const (
	stringHeader    = 16
	sliceHeader     = 24
	mapHeader       = 48
	pointerSize     = 8
	interfaceHeader = 16

	// maxDepth bounds recursion into deeply nested values.
	maxDepth = 32
)

// Structural walks a value with reflection and sums the size of what it
// reaches: string and slice payloads by length, numbers by width, containers
// recursively. Pointers, slice backing arrays and maps are followed once
// each, so cyclic graphs terminate.
type Structural struct{}

func (Structural) Estimate(v any) int64 {
	if v == nil {
		return 0
	}
	switch x := v.(type) {
	case string:
		return stringHeader + int64(len(x))
	case []byte:
		return sliceHeader + int64(len(x))
	case Sizer:
		return x.Size()
	}
	w := walker{seen: make(map[uintptr]struct{})}
	return w.size(reflect.ValueOf(v), 0)
}

type walker struct {
	seen map[uintptr]struct{}
}

func (w *walker) size(v reflect.Value, depth int) int64 {
	if !v.IsValid() {
		return 0
	}
	if depth > maxDepth {
		return DefaultSize
	}
	if v.CanInterface() && v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
		if s, ok := v.Interface().(Sizer); ok {
			return s.Size()
		}
	}

	switch v.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int, reflect.Uint, reflect.Int64, reflect.Uint64,
		reflect.Float64, reflect.Uintptr, reflect.Complex64:
		return 8
	case reflect.Complex128:
		return 16
	case reflect.String:
		return stringHeader + int64(v.Len())
	case reflect.Slice:
		if v.IsNil() {
			return sliceHeader
		}
		if v.Len() > 0 && !w.visit(v.Pointer()) {
			return sliceHeader
		}
		return sliceHeader + w.elems(v, depth)
	case reflect.Array:
		return w.elems(v, depth)
	case reflect.Map:
		if v.IsNil() || !w.visit(v.Pointer()) {
			return mapHeader
		}
		n := int64(mapHeader)
		iter := v.MapRange()
		for iter.Next() {
			n += w.size(iter.Key(), depth+1) + w.size(iter.Value(), depth+1)
		}
		return n
	case reflect.Struct:
		var n int64
		for i := 0; i < v.NumField(); i++ {
			n += w.size(v.Field(i), depth+1)
		}
		return n
	case reflect.Pointer:
		if v.IsNil() {
			return pointerSize
		}
		if !w.visit(v.Pointer()) {
			return pointerSize
		}
		if v.CanInterface() {
			if s, ok := v.Interface().(Sizer); ok {
				return pointerSize + s.Size()
			}
		}
		return pointerSize + w.size(v.Elem(), depth+1)
	case reflect.Interface:
		if v.IsNil() {
			return interfaceHeader
		}
		return interfaceHeader + w.size(v.Elem(), depth+1)
	default:
		// chan, func, unsafe.Pointer
		return DefaultSize
	}
}

// visit records p and reports whether it was new.
func (w *walker) visit(p uintptr) bool {
	if _, ok := w.seen[p]; ok {
		return false
	}
	w.seen[p] = struct{}{}
	return true
}

// elems sizes the elements of a slice or array, using a multiplication for
// fixed-width element types.
func (w *walker) elems(v reflect.Value, depth int) int64 {
	n := v.Len()
	if n == 0 {
		return 0
	}
	switch v.Type().Elem().Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.Uintptr:
		return int64(n) * int64(v.Type().Elem().Size())
	}
	var total int64
	for i := 0; i < n; i++ {
		total += w.size(v.Index(i), depth+1)
	}
	return total
}
