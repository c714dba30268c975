package pool

import (
	"reflect"

	"github.com/modern-go/reflect2"

	"github.com/funny-falcon/slotpool/align"
)

type layout struct {
	name     string
	size     uintptr
	align    uintptr
	stride   uintptr
	pointers bool
}

func layoutOf[T any]() layout {
	typ := reflect2.TypeOfPtr((*T)(nil)).Elem()
	rt := typ.Type1()
	lay := layout{
		name:     typ.String(),
		size:     rt.Size(),
		align:    uintptr(rt.Align()),
		pointers: hasPointers(rt),
	}
	lay.stride = align.Up(lay.size, lay.align)
	return lay
}

func hasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return rt.Len() > 0 && hasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if hasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
