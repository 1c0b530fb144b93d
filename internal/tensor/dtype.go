// Package tensor provides the dense tensor type used by the layerwise engine.
package tensor

import "reflect"

// Numeric is a constraint for supported tensor element types.
// Integer instantiations exist for optimizer uniformity; layers use Float.
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// Float is a constraint for floating-point element types.
type Float interface {
	~float32 | ~float64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// inferDataType infers DataType from a generic type T by its underlying
// kind, so named types such as `type weight float64` resolve too.
func inferDataType[T Numeric](dummy T) DataType {
	switch reflect.TypeOf(dummy).Kind() {
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	default:
		panic("unsupported type")
	}
}

// DTypeOf returns the DataType of the element type T.
func DTypeOf[T Numeric]() DataType {
	var zero T
	return inferDataType(zero)
}
